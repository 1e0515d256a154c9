package mock

import "github.com/fwojciec/heads"

// Compile-time interface verification.
var (
	_ heads.Parser    = (*Parser)(nil)
	_ heads.Converter = (*Converter)(nil)
	_ heads.Recorder  = (*Recorder)(nil)
)

// Parser is a mock implementation of heads.Parser.
type Parser struct {
	ParseFn func(html string) (*heads.Store, error)
}

func (p *Parser) Parse(html string) (*heads.Store, error) {
	return p.ParseFn(html)
}

// Converter is a mock implementation of heads.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Recorder is a mock implementation of heads.Recorder.
type Recorder struct {
	InsertFn func(rec *heads.Record) error
}

func (r *Recorder) Insert(rec *heads.Record) error {
	return r.InsertFn(rec)
}
