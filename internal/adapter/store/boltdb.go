package store

import (
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"

	"reco/internal/domain"
)

var (
	bucketCatalog    = []byte("catalog")
	bucketEmbeddings = []byte("embeddings")
	bucketEvents     = []byte("events")
	bucketMeta       = []byte("meta")
	keyCatalogCount  = []byte("catalog_count")
)

// BoltStore keeps the recommender's local state in a single bbolt file:
// the last good catalog, cached item embeddings and the event log.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketCatalog, bucketEmbeddings, bucketEvents, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SaveCatalog replaces the stored catalog snapshot, keeping item order.
func (s *BoltStore) SaveCatalog(items []domain.Item) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketCatalog); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketCatalog)
		if err != nil {
			return err
		}

		for i, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to encode item %d: %w", item.ID, err)
			}
			if err := b.Put(seqKey(uint64(i)), data); err != nil {
				return err
			}
		}

		count, _ := json.Marshal(len(items))
		return tx.Bucket(bucketMeta).Put(keyCatalogCount, count)
	})
}

// LoadCatalog returns the stored catalog snapshot in its saved order.
// An empty slice means no snapshot was ever saved.
func (s *BoltStore) LoadCatalog() ([]domain.Item, error) {
	var items []domain.Item
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCatalog).ForEach(func(k, v []byte) error {
			var item domain.Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("corrupt catalog entry %x: %w", k, err)
			}
			items = append(items, item)
			return nil
		})
	})
	return items, err
}

// AppendEventRecord stores one encoded event under the next sequence key.
func (s *BoltStore) AppendEventRecord(data []byte) (uint64, error) {
	var seq uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
	return seq, err
}

// ForEachEventRecord visits every stored event in append order.
func (s *BoltStore) ForEachEventRecord(fn func(seq uint64, data []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(k, v []byte) error {
			return fn(binary.BigEndian.Uint64(k), v)
		})
	})
}

// Stats reports how many entries each bucket holds.
// Stats counts the records held in each bucket.
type Stats struct {
	CatalogItems int `json:"catalog_items"`
	Embeddings   int `json:"embeddings"`
	Events       int `json:"events"`
}

func (s *BoltStore) Stats() (Stats, error) {
	var st Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		st.CatalogItems = tx.Bucket(bucketCatalog).Stats().KeyN
		st.Embeddings = tx.Bucket(bucketEmbeddings).Stats().KeyN
		st.Events = tx.Bucket(bucketEvents).Stats().KeyN
		return nil
	})
	return st, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
