// Command server exposes placeholder resolution as a small network service.
//
// It accepts a SQL script plus a JSON document of tagged parameter values and
// returns the resolved script, over plain HTTP (POST /api/resolve) and over
// gRPC with a JSON codec (no protobuf toolchain required).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	sqlbind "github.com/SimonWaldherr/sqlbind"
	"github.com/SimonWaldherr/sqlbind/sqlast"
)

// Flags
var (
	flagHTTP    = flag.String("http", ":8080", "HTTP listen address (empty to disable)")
	flagGRPC    = flag.String("grpc", ":9090", "gRPC listen address (empty to disable)")
	flagVerbose = flag.Bool("v", false, "Verbose logging")
)

type resolveRequest struct {
	SQL    string          `json:"sql"`
	Params json.RawMessage `json:"params,omitempty"`
}

type resolveResponse struct {
	SQL        string `json:"sql,omitempty"`
	Error      string `json:"error,omitempty"`
	Statements int    `json:"statements,omitempty"`
	Skipped    int    `json:"skipped,omitempty"`
	Duration   string `json:"duration"`
}

// gRPC JSON codec
type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// gRPC service interface and descriptors (manual, no protobuf)
type ResolverServer interface {
	Resolve(context.Context, *resolveRequest) (*resolveResponse, error)
}

func registerResolverServer(s *grpc.Server, srv ResolverServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "sqlbind.Resolver",
		HandlerType: (*ResolverServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Resolve", Handler: _Resolver_Resolve_Handler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "sqlbind", // informational
	}, srv)
}

func _Resolver_Resolve_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(resolveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/sqlbind.Resolver/Resolve"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResolverServer).Resolve(ctx, req.(*resolveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type server struct{}

// Resolve parses the script, binds the supplied values and renders the
// result. Failures come back in the response body, never as transport
// errors, so clients always get a JSON document.
func (s *server) Resolve(_ context.Context, req *resolveRequest) (*resolveResponse, error) {
	start := time.Now()
	fail := func(err error) (*resolveResponse, error) {
		if *flagVerbose {
			log.Printf("resolve error: %v", err)
		}
		return &resolveResponse{Error: err.Error(), Duration: time.Since(start).String()}, nil
	}

	stmts, err := sqlbind.Parse(req.SQL)
	if err != nil {
		return fail(err)
	}
	params := sqlbind.NewParameterSet()
	if len(req.Params) > 0 {
		params, err = sqlbind.DecodeValues(req.Params)
		if err != nil {
			return fail(err)
		}
	}
	r := sqlbind.NewResolver(params)
	if err := r.ResolveAll(stmts); err != nil {
		return fail(err)
	}
	return &resolveResponse{
		SQL:        sqlast.RenderAll(stmts),
		Statements: len(stmts),
		Skipped:    r.Skipped(),
		Duration:   time.Since(start).String(),
	}, nil
}

// HTTP handlers
func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Resolve(r.Context(), &req)
	writeJSON(w, resp)
}

func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"ok":    true,
		"time":  time.Now().Format(time.RFC3339),
		"build": "dev",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	flag.Parse()

	srv := &server{}

	// Register JSON codec for gRPC
	encoding.RegisterCodec(jsonCodec{})

	// Start gRPC server
	if *flagGRPC != "" {
		go func() {
			lis, err := net.Listen("tcp", *flagGRPC)
			if err != nil {
				log.Printf("gRPC listen error: %v", err)
				return
			}
			gs := grpc.NewServer()
			registerResolverServer(gs, srv)
			log.Printf("gRPC listening on %s", *flagGRPC)
			if err := gs.Serve(lis); err != nil {
				log.Printf("gRPC serve error: %v", err)
			}
		}()
	}

	// Start HTTP server
	if *flagHTTP != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/resolve", srv.handleResolve)
		mux.HandleFunc("/api/status", srv.handleStatus)
		log.Printf("HTTP listening on %s", *flagHTTP)
		if err := http.ListenAndServe(*flagHTTP, mux); err != nil {
			log.Fatalf("HTTP serve error: %v", err)
		}
	} else {
		// If HTTP disabled, block on gRPC only
		select {}
	}
}
