package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/murmurhouse/murmur/internal/domain"
)

// VectorStore indexes archive summaries in a persistent chromem-go database,
// one collection per room. It serves ranked semantic search; full archive
// content lives in the fallback store, so ListRecent is not supported here.
type VectorStore struct {
	mu      sync.RWMutex
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
}

// NewVectorStore creates (or opens) the persistent index at dataDir/vectorstore/.
// embedFn is the embedding function, e.g. chromem.NewEmbeddingFuncOpenAI.
func NewVectorStore(dataDir string, embedFn chromem.EmbeddingFunc) (*VectorStore, error) {
	dir := filepath.Join(dataDir, "vectorstore")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create vectorstore dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vectorstore: %w", err)
	}
	return &VectorStore{db: db, embedFn: embedFn}, nil
}

func collectionName(roomID domain.RoomID) string {
	return fmt.Sprintf("room_%s_archives", roomID)
}

func (s *VectorStore) collection(roomID domain.RoomID) (*chromem.Collection, error) {
	name := collectionName(roomID)
	col := s.db.GetCollection(name, s.embedFn)
	if col == nil {
		var err error
		col, err = s.db.CreateCollection(name, nil, s.embedFn)
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	return col, nil
}

// Persist indexes the archive summary with its metadata.
func (s *VectorStore) Persist(ctx context.Context, a domain.Archive) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(a.RoomID)
	if err != nil {
		return err
	}
	doc := chromem.Document{
		ID:      string(a.ID),
		Content: a.Summary,
		Metadata: map[string]string{
			"room_id":        string(a.RoomID),
			"archived_at":    a.ArchivedAt.UTC().Format(time.RFC3339),
			"total_messages": strconv.Itoa(a.TotalMessages),
			"total_tokens":   strconv.Itoa(a.TotalTokens),
		},
	}
	return col.AddDocument(ctx, doc)
}

// ListRecent is served by the fallback store; the index keeps summaries only.
func (s *VectorStore) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Archive, error) {
	return nil, ErrNotSupported
}

// Search returns the archives whose summaries are most similar to the query.
func (s *VectorStore) Search(ctx context.Context, roomID domain.RoomID, query string, limit int) ([]SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(roomID)
	if err != nil {
		return nil, err
	}
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	// chromem sometimes rejects k equal to the document count; step down on
	// failure rather than returning nothing.
	var results []chromem.Result
	for k := limit; k > 0; k-- {
		results, err = col.Query(ctx, query, k, nil, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{Meta: metaFromDocument(roomID, r), Score: r.Similarity})
	}
	return hits, nil
}

func metaFromDocument(roomID domain.RoomID, r chromem.Result) domain.ArchiveMeta {
	meta := domain.ArchiveMeta{
		ID:      domain.ArchiveID(r.ID),
		RoomID:  roomID,
		Summary: r.Content,
	}
	if at, err := time.Parse(time.RFC3339, r.Metadata["archived_at"]); err == nil {
		meta.ArchivedAt = at
	}
	if n, err := strconv.Atoi(r.Metadata["total_messages"]); err == nil {
		meta.TotalMessages = n
	}
	if n, err := strconv.Atoi(r.Metadata["total_tokens"]); err == nil {
		meta.TotalTokens = n
	}
	return meta
}
