package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-stash/internal/award"
	"github.com/pixil98/go-stash/internal/game"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/storage"
)

const (
	SubjectJoin     = "stash.actor.join"
	SubjectLeave    = "stash.actor.leave"
	SubjectPosition = "stash.actor.position"
	SubjectMove     = "stash.move"
	SubjectLoot     = "stash.loot"
)

var (
	errActorRequired = errors.New("actor is required")
	// errLootFailed is what a requester out of range is told, so the reply
	// does not reveal the range check.
	errLootFailed = errors.New("unable to loot")
)

// Authority is the world the router forwards requests to.
type Authority interface {
	Join(ctx context.Context, id storage.Identifier, pos loot.Position) error
	Leave(ctx context.Context, id storage.Identifier) error
	SetPosition(id storage.Identifier, pos loot.Position) error
	RequestMove(ctx context.Context, actorId storage.Identifier, srcKind inventory.Kind, srcIndex int, dstKind inventory.Kind, dstIndex int, amount uint) (inventory.Applied, error)
	RequestLoot(ctx context.Context, actorId storage.Identifier, sourceId string) (award.Result, error)
}

// RequestServer is the transport the router answers requests on.
type RequestServer interface {
	Ready() <-chan struct{}
	HandleRequest(subject string, handler func(data []byte) []byte) (func(), error)
}

// Reply is the response to every request.
type Reply struct {
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

type actorRequest struct {
	Actor storage.Identifier `json:"actor"`
	loot.Position
}

type moveRequest struct {
	Actor    storage.Identifier `json:"actor"`
	SrcKind  inventory.Kind     `json:"src_kind"`
	SrcIndex int                `json:"src_index"`
	DstKind  inventory.Kind     `json:"dst_kind"`
	DstIndex int                `json:"dst_index"`
	Amount   uint               `json:"amount"`
}

type lootRequest struct {
	Actor  storage.Identifier `json:"actor"`
	Source string             `json:"source"`
}

// Router decodes requests from the transport and hands them to the world.
type Router struct {
	server RequestServer
	world  Authority
}

func NewRouter(server RequestServer, world Authority) *Router {
	return &Router{server: server, world: world}
}

// Start waits for the transport, registers every subject, and serves until
// ctx is done.
func (r *Router) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-r.server.Ready():
	}

	routes := map[string]func([]byte) []byte{
		SubjectJoin:     handle(ctx, r.join),
		SubjectLeave:    handle(ctx, r.leave),
		SubjectPosition: handle(ctx, r.position),
		SubjectMove:     handle(ctx, r.move),
		SubjectLoot:     handle(ctx, r.loot),
	}

	var unsubs []func()
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	for subject, h := range routes {
		unsub, err := r.server.HandleRequest(subject, h)
		if err != nil {
			return fmt.Errorf("handling %s: %w", subject, err)
		}
		unsubs = append(unsubs, unsub)
	}

	slog.InfoContext(ctx, "request router ready", "subjects", len(routes))

	<-ctx.Done()
	return nil
}

func (r *Router) join(ctx context.Context, req actorRequest) (any, error) {
	if req.Actor == "" {
		return nil, errActorRequired
	}
	return nil, r.world.Join(ctx, req.Actor, req.Position)
}

func (r *Router) leave(ctx context.Context, req actorRequest) (any, error) {
	if req.Actor == "" {
		return nil, errActorRequired
	}
	return nil, r.world.Leave(ctx, req.Actor)
}

func (r *Router) position(_ context.Context, req actorRequest) (any, error) {
	if req.Actor == "" {
		return nil, errActorRequired
	}
	return nil, r.world.SetPosition(req.Actor, req.Position)
}

func (r *Router) move(ctx context.Context, req moveRequest) (any, error) {
	if req.Actor == "" {
		return nil, errActorRequired
	}
	return r.world.RequestMove(ctx, req.Actor, req.SrcKind, req.SrcIndex, req.DstKind, req.DstIndex, req.Amount)
}

func (r *Router) loot(ctx context.Context, req lootRequest) (any, error) {
	if req.Actor == "" {
		return nil, errActorRequired
	}
	if req.Source == "" {
		return nil, fmt.Errorf("source is required")
	}
	res, err := r.world.RequestLoot(ctx, req.Actor, req.Source)
	if errors.Is(err, game.ErrOutOfRange) {
		return nil, errLootFailed
	}
	return res, err
}

// handle adapts a typed request func to a raw request handler.
func handle[T any](ctx context.Context, fn func(context.Context, T) (any, error)) func([]byte) []byte {
	return func(data []byte) []byte {
		var req T
		if err := json.Unmarshal(data, &req); err != nil {
			return encodeReply(nil, fmt.Errorf("decoding request: %w", err))
		}
		return encodeReply(fn(ctx, req))
	}
}

func encodeReply(result any, err error) []byte {
	rep := Reply{Ok: err == nil, Result: result}
	if err != nil {
		rep.Error = err.Error()
		rep.Result = nil
	}

	data, jerr := json.Marshal(rep)
	if jerr != nil {
		slog.Error("unable to encode reply", "error", jerr)
		return []byte(`{"ok":false,"error":"internal error"}`)
	}
	return data
}
