package curriculum

import (
	"fmt"
	"slices"
)

// SessionTopics is how many topics one session covers.
const SessionTopics = 5

// Resource is a study link surfaced after a topic has been discussed.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Topic is a single curriculum entry. Its position in the curriculum is
// its identity for progress tracking, so order matters.
type Topic struct {
	Name     string    `json:"name"`
	Keywords []string  `json:"keywords,omitempty"`
	Resource *Resource `json:"resource,omitempty"`

	// Index is the topic's 0-based position, assigned at registry build.
	Index int `json:"-"`
}

// Curriculum is the document shape of a curriculum file.
type Curriculum struct {
	Subject  string  `json:"subject"`
	Audience string  `json:"audience"`
	Topics   []Topic `json:"topics"`
}

// Registry provides ordered, read-only access to a curriculum.
// Immutable after construction.
type Registry struct {
	subject  string
	audience string
	topics   []Topic
	byName   map[string]*Topic
}

// NewRegistry builds a Registry from a curriculum document.
func NewRegistry(doc Curriculum) (*Registry, error) {
	if len(doc.Topics) == 0 {
		return nil, fmt.Errorf("curriculum has no topics")
	}

	r := &Registry{
		subject:  doc.Subject,
		audience: doc.Audience,
		topics:   slices.Clone(doc.Topics),
		byName:   make(map[string]*Topic, len(doc.Topics)),
	}
	for i := range r.topics {
		t := &r.topics[i]
		if t.Name == "" {
			return nil, fmt.Errorf("topic %d has an empty name", i)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate topic name %q", t.Name)
		}
		t.Index = i
		r.byName[t.Name] = t
	}
	return r, nil
}

// Subject returns the curriculum's subject line.
func (r *Registry) Subject() string {
	return r.subject
}

// Audience returns who the curriculum is written for.
func (r *Registry) Audience() string {
	return r.audience
}

// Len returns the number of topics.
func (r *Registry) Len() int {
	return len(r.topics)
}

// Topics returns all topics in curriculum order.
func (r *Registry) Topics() []Topic {
	return slices.Clone(r.topics)
}

// TopicAt returns the topic at index i.
func (r *Registry) TopicAt(i int) (Topic, bool) {
	if i < 0 || i >= len(r.topics) {
		return Topic{}, false
	}
	return r.topics[i], true
}

// TopicWindow returns up to size topics starting at start, clipped to the
// curriculum bounds. An out-of-range start yields an empty window, never
// a panic: progress cursors from old databases may point past the end.
func (r *Registry) TopicWindow(start, size int) []Topic {
	if start < 0 || start >= len(r.topics) || size <= 0 {
		return nil
	}
	end := min(start+size, len(r.topics))
	return slices.Clone(r.topics[start:end])
}

// KeywordsFor returns the key terms for a topic, or nil if the topic is
// unknown or has none.
func (r *Registry) KeywordsFor(name string) []string {
	t, ok := r.byName[name]
	if !ok {
		return nil
	}
	return slices.Clone(t.Keywords)
}

// ResourceFor returns the study link for a topic, or nil.
func (r *Registry) ResourceFor(name string) *Resource {
	t, ok := r.byName[name]
	if !ok || t.Resource == nil {
		return nil
	}
	res := *t.Resource
	return &res
}
