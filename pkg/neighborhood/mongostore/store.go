// Package mongostore serves neighborhoods from a MongoDB database holding
// one collection of nodes and one of edges.
//
// Documents look like:
//
//	nodes: {_id: "RA:17", kind: "RA", label: "...", schemeKey: "..."}
//	edges: {_id: "e1", from: "I:3", to: "RA:17", role: "premise"}
//
// Kinds and roles are stored as their string names.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/neighborhood"
)

// Default collection names.
const (
	NodesCollection = "nodes"
	EdgesCollection = "edges"
)

const connectTimeout = 10 * time.Second

type nodeDoc struct {
	ID        string `bson:"_id"`
	Kind      string `bson:"kind"`
	Label     string `bson:"label,omitempty"`
	SchemeKey string `bson:"schemeKey,omitempty"`
}

type edgeDoc struct {
	ID   string `bson:"_id"`
	From string `bson:"from"`
	To   string `bson:"to"`
	Role string `bson:"role"`
}

// Store reads argument graphs from MongoDB.
type Store struct {
	client *mongo.Client // nil when the caller owns the connection
	nodes  *mongo.Collection
	edges  *mongo.Collection
}

// New uses the default collections of db. The caller owns the connection.
func New(db *mongo.Database) *Store {
	return &Store{
		nodes: db.Collection(NodesCollection),
		edges: db.Collection(EdgesCollection),
	}
}

// Open connects to uri, pings the server and uses database name.
func Open(ctx context.Context, uri, name string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	s := New(client.Database(name))
	s.client = client
	return s, nil
}

// Close disconnects when the store opened the connection itself.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Neighborhood walks f.Depth hops out from RA:argID, one query per hop,
// then loads the collected nodes and the allowed edges between them.
func (s *Store) Neighborhood(ctx context.Context, argID string, f expand.Filters) (argument.Delta, error) {
	if err := errors.ValidateArgumentID(argID); err != nil {
		return argument.Delta{}, err
	}
	start := argument.CompoundID(argument.KindRuleApplication, argID)
	if err := s.nodes.FindOne(ctx, bson.M{"_id": start}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return argument.Delta{}, errors.New(errors.ErrCodeNotFound, "argument %s not found", argID)
		}
		return argument.Delta{}, fmt.Errorf("find %s: %w", start, err)
	}

	roles := allowedRoles(f)
	seen := map[string]bool{start: true}
	frontier := []string{start}
	for hop := 0; hop < max(f.Depth, 1) && len(frontier) > 0; hop++ {
		edges, err := s.findEdges(ctx, bson.M{
			"role": bson.M{"$in": roles},
			"$or": bson.A{
				bson.M{"from": bson.M{"$in": frontier}},
				bson.M{"to": bson.M{"$in": frontier}},
			},
		})
		if err != nil {
			return argument.Delta{}, err
		}
		var next []string
		for _, e := range edges {
			for _, id := range []string{e.From, e.To} {
				if !seen[id] {
					seen[id] = true
					next = append(next, id)
				}
			}
		}
		frontier = next
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	var d argument.Delta
	cur, err := s.nodes.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return argument.Delta{}, fmt.Errorf("find nodes: %w", err)
	}
	var nodes []nodeDoc
	if err := cur.All(ctx, &nodes); err != nil {
		return argument.Delta{}, fmt.Errorf("decode nodes: %w", err)
	}
	present := make(map[string]bool, len(nodes))
	for _, doc := range nodes {
		n, err := doc.node()
		if err != nil {
			return argument.Delta{}, err
		}
		present[n.ID] = true
		d.Nodes = append(d.Nodes, n)
	}

	edges, err := s.findEdges(ctx, bson.M{
		"role": bson.M{"$in": roles},
		"from": bson.M{"$in": ids},
		"to":   bson.M{"$in": ids},
	})
	if err != nil {
		return argument.Delta{}, err
	}
	for _, e := range edges {
		if present[e.From] && present[e.To] {
			d.Edges = append(d.Edges, e)
		}
	}
	return d, nil
}

// Summary counts the edges incident to RA:argID.
func (s *Store) Summary(ctx context.Context, argID string) (expand.Summary, error) {
	if err := errors.ValidateArgumentID(argID); err != nil {
		return expand.Summary{}, err
	}
	id := argument.CompoundID(argument.KindRuleApplication, argID)
	edges, err := s.findEdges(ctx, bson.M{"$or": bson.A{bson.M{"from": id}, bson.M{"to": id}}})
	if err != nil {
		return expand.Summary{}, err
	}
	return neighborhood.Count(edges), nil
}

// Import upserts every element of d.
func (s *Store) Import(ctx context.Context, d argument.Delta) error {
	upsert := options.Replace().SetUpsert(true)
	for _, n := range d.Nodes {
		doc := nodeDoc{ID: n.ID, Kind: n.Kind.String(), Label: n.Label, SchemeKey: n.SchemeKey}
		if _, err := s.nodes.ReplaceOne(ctx, bson.M{"_id": n.ID}, doc, upsert); err != nil {
			return fmt.Errorf("upsert node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		doc := edgeDoc{ID: e.ID, From: e.From, To: e.To, Role: e.Role.String()}
		if _, err := s.edges.ReplaceOne(ctx, bson.M{"_id": e.ID}, doc, upsert); err != nil {
			return fmt.Errorf("upsert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

func (s *Store) findEdges(ctx context.Context, filter bson.M) ([]argument.Edge, error) {
	cur, err := s.edges.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find edges: %w", err)
	}
	var docs []edgeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	edges := make([]argument.Edge, len(docs))
	for i, doc := range docs {
		edges[i] = doc.edge()
	}
	return edges, nil
}

func (d nodeDoc) node() (argument.Node, error) {
	k, err := argument.ParseKind(d.Kind)
	if err != nil {
		return argument.Node{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "node %s", d.ID)
	}
	return argument.Node{ID: d.ID, Kind: k, Label: d.Label, SchemeKey: d.SchemeKey}, nil
}

func (d edgeDoc) edge() argument.Edge {
	return argument.Edge{ID: d.ID, From: d.From, To: d.To, Role: argument.ParseRole(d.Role)}
}

func allowedRoles(f expand.Filters) []string {
	var roles []string
	for _, r := range argument.AllRoles() {
		if f.Allows(r) {
			roles = append(roles, r.String())
		}
	}
	return roles
}
