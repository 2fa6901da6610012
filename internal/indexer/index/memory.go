package index

import (
	"context"
	"sync"
)

// Memory is an in-process Store guarded by an RWMutex. Writers take the lock
// exclusively, so a reader never observes a document with only part of its
// postings written. It backs tests and storage-less local runs.
type Memory struct {
	mu        sync.RWMutex
	termIDs   map[string]int64
	postings  map[int64]map[int64]int // term id -> doc id -> frequency
	documents map[int64]Document
	nextTerm  int64
	nextDoc   int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		termIDs:   make(map[string]int64),
		postings:  make(map[int64]map[int64]int),
		documents: make(map[int64]Document),
	}
}

// IndexDocument implements Store. The whole update happens under one lock
// acquisition, so it appears atomic to concurrent readers.
func (m *Memory) IndexDocument(ctx context.Context, title, content string, freqs map[string]int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextDoc++
	docID := m.nextDoc
	m.documents[docID] = Document{ID: docID, Title: title, Content: content}

	for word, freq := range freqs {
		if freq <= 0 {
			continue
		}
		termID := m.upsertTermLocked(word)
		m.addPostingLocked(termID, docID, freq)
	}
	return docID, nil
}

// UpsertTerm returns the id of an existing term or interns a new one. Two
// calls with the same normalized word return the same id.
func (m *Memory) UpsertTerm(word string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertTermLocked(word)
}

// AddPosting inserts or replaces the posting for (termID, docID). A
// frequency <= 0 is a silent no-op; it never corrupts state.
func (m *Memory) AddPosting(termID, docID int64, frequency int) {
	if frequency <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addPostingLocked(termID, docID, frequency)
}

// PostingsFor returns the postings of a single term. Unknown term ids yield
// an empty slice.
func (m *Memory) PostingsFor(termID int64) []Posting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.postings[termID]
	result := make([]Posting, 0, len(docs))
	for docID, freq := range docs {
		result = append(result, Posting{TermID: termID, DocID: docID, Frequency: freq})
	}
	return result
}

// DocumentFrequency returns the number of distinct documents containing the
// term.
func (m *Memory) DocumentFrequency(termID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postings[termID])
}

// CountDocuments implements Store.
func (m *Memory) CountDocuments(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.documents)), nil
}

// FindTerms implements Store.
func (m *Memory) FindTerms(ctx context.Context, words []string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]int64, len(words))
	for _, word := range words {
		if id, ok := m.termIDs[word]; ok {
			result[word] = id
		}
	}
	return result, nil
}

// FindPostings implements Store.
func (m *Memory) FindPostings(ctx context.Context, termIDs []int64) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []Posting
	for _, termID := range termIDs {
		for docID, freq := range m.postings[termID] {
			result = append(result, Posting{TermID: termID, DocID: docID, Frequency: freq})
		}
	}
	return result, nil
}

// DocumentFrequencies implements Store.
func (m *Memory) DocumentFrequencies(ctx context.Context, termIDs []int64) (map[int64]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[int64]int, len(termIDs))
	for _, termID := range termIDs {
		result[termID] = len(m.postings[termID])
	}
	return result, nil
}

// Documents implements Store.
func (m *Memory) Documents(ctx context.Context, ids []int64) (map[int64]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[int64]Document, len(ids))
	for _, id := range ids {
		if doc, ok := m.documents[id]; ok {
			result[id] = doc
		}
	}
	return result, nil
}

func (m *Memory) upsertTermLocked(word string) int64 {
	if id, ok := m.termIDs[word]; ok {
		return id
	}
	m.nextTerm++
	m.termIDs[word] = m.nextTerm
	m.postings[m.nextTerm] = make(map[int64]int)
	return m.nextTerm
}

func (m *Memory) addPostingLocked(termID, docID int64, frequency int) {
	docs, ok := m.postings[termID]
	if !ok {
		docs = make(map[int64]int)
		m.postings[termID] = docs
	}
	docs[docID] = frequency
}
