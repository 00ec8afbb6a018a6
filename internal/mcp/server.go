// Package mcp exposes a running session and the composition cache as MCP
// tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"entityscrape/internal/composition"
	"entityscrape/internal/session"
	"entityscrape/internal/store"
)

// Session is the part of *session.Session the tools drive.
type Session interface {
	Exec(ctx context.Context, token string) (session.Report, error)
	State(ctx context.Context) (session.State, error)
}

type Searcher interface {
	Search(ctx context.Context, query, kind string) ([]store.SearchResult, error)
}

type Server struct {
	session  Session
	source   composition.Source
	searcher Searcher
	mcp      *sdk.Server
}

// NewServer registers the tools. source and searcher may be nil, in which
// case the lookup tools report that no cache is configured.
func NewServer(sess Session, source composition.Source, searcher Searcher, version string) *Server {
	s := &Server{
		session:  sess,
		source:   source,
		searcher: searcher,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "entityscrape",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
