// Package store holds the authoritative block collection of one surface
// and writes it through to an Adapter after every mutation.
//
// Each surface owns its own Store. Two Stores over the same Adapter only
// agree after a Reload; Follow automates that for Watchable adapters.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/search"
)

// Scope selects which items Items searches.
type Scope int

const (
	ScopeActive Scope = iota // the active block only
	ScopeAll                 // every block, in block order
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used on the load path.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = l }
}

// WithMaxFileBytes caps the decoded size of a file item. 0 disables the cap.
func WithMaxFileBytes(n int64) Option {
	return func(s *Store) { s.maxFileBytes = n }
}

type Store struct {
	adapter      Adapter
	log          *logrus.Entry
	maxFileBytes int64

	mu     sync.RWMutex
	blocks []model.Block
	active string

	hub hub
}

// New returns an empty Store. Call Initialize before use.
func New(adapter Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted collection, seeding the default blocks
// on first use. Read failures are logged and treated as "nothing stored".
func (s *Store) Initialize(ctx context.Context) error {
	return s.load(ctx, EventLoaded)
}

// Reload re-reads the adapter, discarding the in-memory copy. Unlike
// Initialize it never seeds over an unreadable collection: on a read or
// decode failure the current state is kept and the error returned.
func (s *Store) Reload(ctx context.Context) error {
	return s.load(ctx, EventReloaded)
}

func (s *Store) load(ctx context.Context, kind EventKind) error {
	s.mu.Lock()
	blocks, found, err := s.readBlocks(ctx)
	if err != nil && kind == EventReloaded {
		s.mu.Unlock()
		s.log.WithError(err).Warn("reload blocks; keeping current state")
		return fmt.Errorf("reload: %w", err)
	}
	if err != nil {
		s.log.WithError(err).Warn("read blocks; starting from defaults")
		s.backupCorrupt(ctx, err)
	}
	if !found {
		blocks = model.DefaultBlocks()
		if err := s.writeBlocks(ctx, blocks); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("seed default blocks: %w", err)
		}
		s.log.WithField("blocks", len(blocks)).Info("seeded default blocks")
	}

	active, err := s.readActive(ctx)
	if err != nil {
		s.log.WithError(err).Warn("read active block")
		if kind == EventReloaded {
			active = s.active
		}
	}
	fill := active == "" && len(blocks) > 0
	if fill {
		active = blocks[0].ID
	}
	s.blocks, s.active = blocks, active

	err = nil
	if fill {
		err = s.writeActive(ctx)
	}
	s.mu.Unlock()

	s.hub.publish(Event{Kind: kind})
	return err
}

// corruptError carries the raw value that failed to decode.
type corruptError struct {
	raw string
	err error
}

func (e *corruptError) Error() string { return "decode blocks: " + e.err.Error() }
func (e *corruptError) Unwrap() error { return e.err }

// readBlocks reports found=false with a nil error when nothing is stored.
func (s *Store) readBlocks(ctx context.Context) ([]model.Block, bool, error) {
	raw, ok, err := s.adapter.Get(ctx, BlocksKey)
	if err != nil {
		return nil, false, fmt.Errorf("read blocks: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	blocks, err := model.DecodeBlocks([]byte(raw))
	if err != nil {
		return nil, false, &corruptError{raw: raw, err: err}
	}
	return blocks, true, nil
}

// backupCorrupt keeps an undecodable collection before defaults replace it.
func (s *Store) backupCorrupt(ctx context.Context, err error) {
	var ce *corruptError
	if !errors.As(err, &ce) {
		return
	}
	if err := s.adapter.Set(ctx, CorruptBlocksKey, ce.raw); err != nil {
		s.log.WithError(err).Error("back up undecodable blocks")
	}
}

func (s *Store) readActive(ctx context.Context) (string, error) {
	id, _, err := s.adapter.Get(ctx, ActiveBlockKey)
	if err != nil {
		return "", fmt.Errorf("read active block: %w", err)
	}
	return id, nil
}

func (s *Store) writeBlocks(ctx context.Context, blocks []model.Block) error {
	b, err := model.EncodeBlocks(blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	if err := s.adapter.Set(ctx, BlocksKey, string(b)); err != nil {
		return fmt.Errorf("write blocks: %w", err)
	}
	return nil
}

func (s *Store) writeActive(ctx context.Context) error {
	if err := s.adapter.Set(ctx, ActiveBlockKey, s.active); err != nil {
		return fmt.Errorf("write active block: %w", err)
	}
	return nil
}

// commit persists the collection, and the selection when it moved.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, op string, activeMoved bool) error {
	if err := s.writeBlocks(ctx, s.blocks); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if activeMoved {
		if err := s.writeActive(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, b := range s.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// CreateBlock appends a new empty block and makes it active.
func (s *Store) CreateBlock(ctx context.Context, name string, icon model.Icon) (Result, error) {
	if strings.TrimSpace(name) == "" {
		return rejected(RejectedEmptyName), nil
	}
	s.mu.Lock()
	blk := model.Block{ID: model.NewID(), Name: name, Icon: icon, Items: []model.Item{}}
	s.blocks = append(s.blocks, blk)
	s.active = blk.ID
	err := s.commit(ctx, "create block", true)
	s.mu.Unlock()

	s.hub.publish(Event{Kind: EventMutated, Op: "create block", ID: blk.ID})
	return applied(blk.ID), err
}

// DeleteBlock removes a block and all of its items. Deleting the active
// block selects the first remaining block, or none.
func (s *Store) DeleteBlock(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return rejected(NotFound), nil
	}
	s.blocks = append(s.blocks[:i:i], s.blocks[i+1:]...)
	moved := s.active == id
	if moved {
		s.active = ""
		if len(s.blocks) > 0 {
			s.active = s.blocks[0].ID
		}
	}
	err := s.commit(ctx, "delete block", moved)
	s.mu.Unlock()

	s.hub.publish(Event{Kind: EventMutated, Op: "delete block", ID: id})
	return applied(id), err
}

// SetActiveBlock selects id without checking that it exists.
func (s *Store) SetActiveBlock(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	s.active = id
	err := s.writeActive(ctx)
	s.mu.Unlock()

	s.hub.publish(Event{Kind: EventMutated, Op: "select block", ID: id})
	return applied(id), err
}

// AddLink appends a link to the active block.
func (s *Store) AddLink(ctx context.Context, title, url string, tags []string, description string) (Result, error) {
	if title == "" || url == "" {
		return rejected(RejectedMissingField), nil
	}
	return s.addItem(ctx, "add link", model.Link{
		ID:          model.NewID(),
		Title:       title,
		URL:         url,
		Tags:        model.CopyTags(tags),
		Description: description,
	})
}

// AddInfo appends a label/value snippet to the active block.
func (s *Store) AddInfo(ctx context.Context, label, value string, tags []string) (Result, error) {
	if label == "" || value == "" {
		return rejected(RejectedMissingField), nil
	}
	return s.addItem(ctx, "add info", model.Info{
		ID:    model.NewID(),
		Label: label,
		Value: value,
		Tags:  model.CopyTags(tags),
	})
}

// AddFile appends a file to the active block. fileType may be empty when
// the type is unknown.
func (s *Store) AddFile(ctx context.Context, name, fileType, dataURL string, tags []string, description string) (Result, error) {
	if name == "" || dataURL == "" {
		return rejected(RejectedMissingField), nil
	}
	if s.maxFileBytes > 0 && DataURLSize(dataURL) > s.maxFileBytes {
		return rejected(RejectedTooLarge), nil
	}
	return s.addItem(ctx, "add file", model.File{
		ID:          model.NewID(),
		Name:        name,
		FileType:    fileType,
		DataURL:     dataURL,
		Tags:        model.CopyTags(tags),
		Description: description,
	})
}

func (s *Store) addItem(ctx context.Context, op string, it model.Item) (Result, error) {
	s.mu.Lock()
	i := s.indexOf(s.active)
	if s.active == "" || i < 0 {
		s.mu.Unlock()
		return rejected(RejectedNoActiveBlock), nil
	}
	s.blocks[i].Items = append(s.blocks[i].Items, it)
	err := s.commit(ctx, op, false)
	s.mu.Unlock()

	s.hub.publish(Event{Kind: EventMutated, Op: op, ID: it.ItemID()})
	return applied(it.ItemID()), err
}

// DeleteItem removes one item from a block.
func (s *Store) DeleteItem(ctx context.Context, blockID, itemID string) (Result, error) {
	s.mu.Lock()
	bi := s.indexOf(blockID)
	if bi < 0 {
		s.mu.Unlock()
		return rejected(NotFound), nil
	}
	items := s.blocks[bi].Items
	ii := s.blocks[bi].IndexOf(itemID)
	if ii < 0 {
		s.mu.Unlock()
		return rejected(NotFound), nil
	}
	s.blocks[bi].Items = append(items[:ii:ii], items[ii+1:]...)
	err := s.commit(ctx, "delete item", false)
	s.mu.Unlock()

	s.hub.publish(Event{Kind: EventMutated, Op: "delete item", ID: itemID})
	return applied(itemID), err
}

// Blocks returns a deep copy of the collection.
func (s *Store) Blocks() []model.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Block, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = b.Clone()
	}
	return out
}

// ActiveBlockID returns the selected block id, "" when nothing is selected.
func (s *Store) ActiveBlockID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Block returns a copy of the block with the given id.
func (s *Store) Block(id string) (model.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.blocks[i].Clone(), true
	}
	return model.Block{}, false
}

// ActiveBlock returns a copy of the selected block.
func (s *Store) ActiveBlock() (model.Block, bool) {
	return s.Block(s.ActiveBlockID())
}

// FindItem locates an item anywhere in the collection.
func (s *Store) FindItem(itemID string) (model.Item, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.blocks {
		if i := b.IndexOf(itemID); i >= 0 {
			return model.Clone(b.Items[i]), b.ID, true
		}
	}
	return nil, "", false
}

// Items returns the items in scope that match query.
func (s *Store) Items(scope Scope, query string) []model.Item {
	s.mu.RLock()
	var items []model.Item
	switch scope {
	case ScopeAll:
		for _, b := range s.blocks {
			for _, it := range b.Items {
				items = append(items, model.Clone(it))
			}
		}
	default:
		if i := s.indexOf(s.active); i >= 0 {
			for _, it := range s.blocks[i].Items {
				items = append(items, model.Clone(it))
			}
		}
	}
	s.mu.RUnlock()
	return search.Filter(items, query)
}

// DataURLSize returns the decoded payload size of a base64 data URL, or
// its raw length when it is not base64.
func DataURLSize(dataURL string) int64 {
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 {
		return int64(len(dataURL))
	}
	payload := dataURL[comma+1:]
	if !strings.HasSuffix(dataURL[:comma], ";base64") {
		return int64(len(payload))
	}
	n := int64(len(payload)) / 4 * 3
	switch {
	case strings.HasSuffix(payload, "=="):
		n -= 2
	case strings.HasSuffix(payload, "="):
		n--
	}
	return n
}
