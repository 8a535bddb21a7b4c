package engine

// ============================================================================
// ENGINE OPTIONS: Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	CurrencySymbol string            // prefix for StyleCurrency values
	Precision      int               // decimals for StyleDecimal values
	Labels         map[string]string // key → display label
	ColumnStyles   map[string]string // table column key → value style
}

// WithCurrencySymbol sets the prefix used for currency values (default "$").
func WithCurrencySymbol(symbol string) Option {
	return func(c *config) {
		c.CurrencySymbol = symbol
	}
}

// WithPrecision sets the number of decimals for decimal values (default 2).
func WithPrecision(places int) Option {
	return func(c *config) {
		if places >= 0 {
			c.Precision = places
		}
	}
}

// WithLabels sets display labels for dimension and measure keys.
// Keys without a label fall back to LabelForDimension.
func WithLabels(labels map[string]string) Option {
	return func(c *config) {
		for k, v := range labels {
			c.Labels[k] = v
		}
	}
}

// WithColumnStyle sets how a table column's measure values are formatted.
func WithColumnStyle(key, style string) Option {
	return func(c *config) {
		c.ColumnStyles[key] = style
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		CurrencySymbol: "$",
		Precision:      2,
		Labels:         make(map[string]string),
		ColumnStyles:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) label(key string) string {
	if l, ok := c.Labels[key]; ok && l != "" {
		return l
	}
	return LabelForDimension(key)
}

func (c *config) format(v float64, style string) string {
	switch style {
	case StyleCurrency:
		return FormatCurrency(v, c.CurrencySymbol)
	case StyleDecimal:
		return FormatDecimal(v, c.Precision)
	default:
		return FormatPlain(v)
	}
}
