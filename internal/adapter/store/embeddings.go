package store

import (
	"crypto/sha256"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

type storedVector struct {
	Vector []float32 `json:"v"`
	Model  string    `json:"m"`
}

// embeddingKey identifies an item text embedded by a specific model.
func embeddingKey(model, text string) []byte {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return sum[:]
}

// GetEmbeddings returns cached vectors for the texts that have one.
func (s *BoltStore) GetEmbeddings(model string, texts []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(texts))
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		for _, text := range texts {
			data := b.Get(embeddingKey(model, text))
			if data == nil {
				continue
			}
			var sv storedVector
			if err := json.Unmarshal(data, &sv); err != nil {
				// Treat unreadable entries as misses; they get re-embedded.
				continue
			}
			found[text] = sv.Vector
		}
		return nil
	})
	return found, err
}

// PutEmbeddings stores vectors keyed by their item text in one transaction.
func (s *BoltStore) PutEmbeddings(model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		for text, vec := range vectors {
			data, err := json.Marshal(storedVector{Vector: vec, Model: model})
			if err != nil {
				return err
			}
			if err := b.Put(embeddingKey(model, text), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearEmbeddings drops every cached vector.
func (s *BoltStore) ClearEmbeddings() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEmbeddings); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketEmbeddings)
		return err
	})
}
