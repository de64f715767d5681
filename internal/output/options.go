package output

import "io"

// Option configures a Printer.
type Option func(*Printer)

// WithStyles enables styled output with provider. Unavailable providers are ignored.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
			p.mode = ModeStyled
		}
	}
}

// WithWriter sets the destination writer. Nil keeps os.Stdout.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// PlainText forces plain output.
func PlainText() Option {
	return func(p *Printer) {
		p.mode = ModePlain
	}
}

// Silent discards all output.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}

// WithPrefix prefixes every write.
func WithPrefix(prefix string) Option {
	return func(p *Printer) {
		p.prefix = prefix
	}
}
