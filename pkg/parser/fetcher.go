package parser

import "context"

// Fetcher is the HTTP primitive the parsers fetch their payloads with.
// *source.Client implements it.
type Fetcher interface {
	GetList(ctx context.Context, u string) ([]byte, error)
	GetDocument(ctx context.Context, u string) ([]byte, error)
}
