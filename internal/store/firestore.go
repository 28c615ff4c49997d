// internal/store/firestore.go
// Firestore-backed implementation of the Store interface.

package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreStore implements Store on top of a Firestore client
type firestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore through the Firebase app.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (Store, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &firestoreStore{client: client}, nil
}

func (s *firestoreStore) Get(ctx context.Context, path string) (*Doc, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return &Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *firestoreStore) GetAll(ctx context.Context, q Query) ([]Doc, error) {
	it := s.buildQuery(q).Documents(ctx)
	defer it.Stop()

	var docs []Doc
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", q.Path, err)
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *firestoreStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	_, err := s.client.Doc(path).Set(ctx, translateSentinels(data))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	_, err := s.client.Doc(path).Set(ctx, translateSentinels(fields), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, translateSentinels(data))
	if err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *firestoreStore) Delete(ctx context.Context, path string) error {
	_, err := s.client.Doc(path).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) Subscribe(ctx context.Context, q Query, fn func([]Doc)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.buildQuery(q).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// Listener torn down or stream failed
				return
			}

			var docs []Doc
			docIt := snap.Documents
			for {
				d, err := docIt.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				docs = append(docs, Doc{ID: d.Ref.ID, Data: d.Data()})
			}
			fn(docs)
		}
	}()

	return cancel, nil
}

func (s *firestoreStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(&firestoreTx{store: s, t: t})
	})
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}

func (s *firestoreStore) buildQuery(q Query) firestore.Query {
	fq := s.client.Collection(q.Path).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.OrderBy {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

// firestoreTx adapts *firestore.Transaction to the Tx interface
type firestoreTx struct {
	store *firestoreStore
	t     *firestore.Transaction
}

func (tx *firestoreTx) Get(path string) (*Doc, error) {
	snap, err := tx.t.Get(tx.store.client.Doc(path))
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return &Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (tx *firestoreTx) GetAll(q Query) ([]Doc, error) {
	it := tx.t.Documents(tx.store.buildQuery(q))
	defer it.Stop()

	var docs []Doc
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", q.Path, err)
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (tx *firestoreTx) Set(path string, data map[string]interface{}) error {
	return tx.t.Set(tx.store.client.Doc(path), translateSentinels(data))
}

func (tx *firestoreTx) Update(path string, fields map[string]interface{}) error {
	return tx.t.Set(tx.store.client.Doc(path), translateSentinels(fields), firestore.MergeAll)
}

func (tx *firestoreTx) Delete(path string) error {
	return tx.t.Delete(tx.store.client.Doc(path))
}

// translateSentinels maps our ServerTimestamp sentinel to the Firestore one,
// descending into nested maps
func translateSentinels(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case serverTimestamp:
			out[k] = firestore.ServerTimestamp
		case map[string]interface{}:
			out[k] = translateSentinels(val)
		default:
			out[k] = v
		}
	}
	return out
}
