package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/metrics"
)

// #region wire
// ServiceName is the fully qualified gRPC service. Payloads are google.protobuf.Struct.
const ServiceName = "reasoner.knowledge.v1.Knowledge"

const (
	methodSearch      = "Search"
	methodRules       = "Rules"
	methodStatistics  = "Statistics"
	methodCausal      = "CausalRelationships"
	methodConsistency = "ValidateConsistency"
)

// #endregion wire

// #region client-struct
// Client is an Adapter that forwards every lookup to a remote knowledge service.
type Client struct {
	conn    *grpc.ClientConn
	cc      grpc.ClientConnInterface
	timeout time.Duration
}

// #endregion client-struct

// #region constructor
// Dial connects to a knowledge gRPC server. timeout bounds each call; 0 disables it.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn, timeout: timeout}, nil
}

// NewClientWithConn wraps an existing connection. Used for testing over bufconn.
func NewClientWithConn(cc grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{cc: cc, timeout: timeout}
}

// Close shuts down the gRPC connection if the client owns it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region invoke
func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, errs.Wrap(errs.CategoryValidation, "knowledge."+method, err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		metrics.KnowledgeRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, fromStatus(method, err)
	}
	metrics.KnowledgeRequestsTotal.WithLabelValues(method, "ok").Inc()
	return out.AsMap(), nil
}

func fromStatus(method string, err error) error {
	op := "knowledge." + method
	switch status.Code(err) {
	case codes.InvalidArgument:
		return errs.Wrap(errs.CategoryValidation, op, err)
	case codes.NotFound:
		return errs.Wrap(errs.CategoryNotFound, op, err)
	case codes.Canceled, codes.DeadlineExceeded:
		return errs.Wrap(errs.CategoryCancelled, op, err)
	default:
		return errs.Wrap(errs.CategoryUnavailable, op, err)
	}
}

// #endregion invoke

// #region client-methods
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Fact, error) {
	resp, err := c.invoke(ctx, methodSearch, map[string]any{"query": query, "limit": limit})
	if err != nil {
		return nil, err
	}
	return decodeList(resp["facts"], factFromMap), nil
}

func (c *Client) Facts(ctx context.Context, query string) ([]Fact, error) {
	return c.Search(ctx, query, DefaultLimit)
}

func (c *Client) Rules(ctx context.Context, domain string) ([]Rule, error) {
	resp, err := c.invoke(ctx, methodRules, map[string]any{"domain": domain})
	if err != nil {
		return nil, err
	}
	return decodeList(resp["rules"], ruleFromMap), nil
}

func (c *Client) Statistics(ctx context.Context, concept string) ([]Statistic, error) {
	resp, err := c.invoke(ctx, methodStatistics, map[string]any{"concept": concept})
	if err != nil {
		return nil, err
	}
	return decodeList(resp["statistics"], statisticFromMap), nil
}

func (c *Client) CausalRelationships(ctx context.Context, cause, effect string) ([]CausalLink, error) {
	resp, err := c.invoke(ctx, methodCausal, map[string]any{"cause": cause, "effect": effect})
	if err != nil {
		return nil, err
	}
	return decodeList(resp["links"], linkFromMap), nil
}

func (c *Client) ValidateConsistency(ctx context.Context, fact, domain string) (bool, error) {
	resp, err := c.invoke(ctx, methodConsistency, map[string]any{"fact": fact, "domain": domain})
	if err != nil {
		return false, err
	}
	ok, _ := resp["consistent"].(bool)
	return ok, nil
}

// #endregion client-methods

// #region server
// knowledgeService is the handler type registered with grpc.
type knowledgeService interface {
	serve(ctx context.Context, method string, req map[string]any) (map[string]any, error)
}

type server struct {
	adapter Adapter
}

// RegisterServer exposes adapter over gRPC on reg. Optional capabilities the
// adapter lacks answer with codes.Unimplemented.
func RegisterServer(reg grpc.ServiceRegistrar, adapter Adapter) {
	reg.RegisterService(&serviceDesc, &server{adapter: adapter})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*knowledgeService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodSearch, Handler: handler(methodSearch)},
		{MethodName: methodRules, Handler: handler(methodRules)},
		{MethodName: methodStatistics, Handler: handler(methodStatistics)},
		{MethodName: methodCausal, Handler: handler(methodCausal)},
		{MethodName: methodConsistency, Handler: handler(methodConsistency)},
	},
	Streams: []grpc.StreamDesc{},
}

func handler(method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		call := func(ctx context.Context, req any) (any, error) {
			resp, err := srv.(knowledgeService).serve(ctx, method, req.(*structpb.Struct).AsMap())
			if err != nil {
				return nil, toStatus(err)
			}
			out, err := structpb.NewStruct(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		return interceptor(ctx, in, info, call)
	}
}

func (s *server) serve(ctx context.Context, method string, req map[string]any) (map[string]any, error) {
	str := func(k string) string { v, _ := req[k].(string); return v }
	switch method {
	case methodSearch:
		limit, _ := req["limit"].(float64)
		facts, err := s.adapter.Search(ctx, str("query"), int(limit))
		if err != nil {
			return nil, err
		}
		return map[string]any{"facts": encodeList(facts, factToMap)}, nil
	case methodRules:
		rules, err := s.adapter.Rules(ctx, str("domain"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"rules": encodeList(rules, ruleToMap)}, nil
	case methodStatistics:
		p, ok := s.adapter.(StatisticsProvider)
		if !ok {
			return nil, status.Error(codes.Unimplemented, "statistics not supported")
		}
		stats, err := p.Statistics(ctx, str("concept"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"statistics": encodeList(stats, statisticToMap)}, nil
	case methodCausal:
		p, ok := s.adapter.(CausalProvider)
		if !ok {
			return nil, status.Error(codes.Unimplemented, "causal relationships not supported")
		}
		links, err := p.CausalRelationships(ctx, str("cause"), str("effect"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"links": encodeList(links, linkToMap)}, nil
	case methodConsistency:
		p, ok := s.adapter.(ConsistencyValidator)
		if !ok {
			return nil, status.Error(codes.Unimplemented, "consistency validation not supported")
		}
		ok, err := p.ValidateConsistency(ctx, str("fact"), str("domain"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"consistent": ok}, nil
	}
	return nil, status.Errorf(codes.Unimplemented, "unknown method %s", method)
}

func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// #endregion server

// #region codec
func encodeList[T any](items []T, enc func(T) map[string]any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = enc(it)
	}
	return out
}

func decodeList[T any](raw any, dec func(map[string]any) T) []T {
	list, _ := raw.([]any)
	out := make([]T, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, dec(m))
		}
	}
	return out
}

func factToMap(f Fact) map[string]any {
	return map[string]any{
		"id": f.ID, "content": f.Content, "domain": f.Domain,
		"confidence": f.Confidence, "source": f.Source, "score": f.Score,
	}
}

func factFromMap(m map[string]any) Fact {
	return Fact{
		ID: asString(m["id"]), Content: asString(m["content"]), Domain: asString(m["domain"]),
		Confidence: asFloat(m["confidence"]), Source: asString(m["source"]), Score: asFloat(m["score"]),
	}
}

func ruleToMap(r Rule) map[string]any {
	return map[string]any{
		"id": r.ID, "domain": r.Domain, "condition": r.Condition,
		"conclusion": r.Conclusion, "confidence": r.Confidence,
	}
}

func ruleFromMap(m map[string]any) Rule {
	return Rule{
		ID: asString(m["id"]), Domain: asString(m["domain"]), Condition: asString(m["condition"]),
		Conclusion: asString(m["conclusion"]), Confidence: asFloat(m["confidence"]),
	}
}

func statisticToMap(s Statistic) map[string]any {
	return map[string]any{
		"concept": s.Concept, "metric": s.Metric, "value": s.Value,
		"sample_size": s.SampleSize, "confidence": s.Confidence,
	}
}

func statisticFromMap(m map[string]any) Statistic {
	return Statistic{
		Concept: asString(m["concept"]), Metric: asString(m["metric"]), Value: asFloat(m["value"]),
		SampleSize: int(asFloat(m["sample_size"])), Confidence: asFloat(m["confidence"]),
	}
}

func linkToMap(l CausalLink) map[string]any {
	return map[string]any{
		"cause": l.Cause, "effect": l.Effect, "strength": l.Strength, "mechanism": l.Mechanism,
	}
}

func linkFromMap(m map[string]any) CausalLink {
	return CausalLink{
		Cause: asString(m["cause"]), Effect: asString(m["effect"]),
		Strength: asFloat(m["strength"]), Mechanism: asString(m["mechanism"]),
	}
}

func asString(v any) string { s, _ := v.(string); return s }
func asFloat(v any) float64 { f, _ := v.(float64); return f }

// #endregion codec
