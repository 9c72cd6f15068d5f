package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a persisted item carries a type we
// cannot decode.
var ErrUnknownKind = errors.New("unknown item type")

// Durable schema: [{id, name, icon, items: [{type, ...variant fields}]}].

type wireBlock struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Icon  Icon              `json:"icon"`
	Items []json.RawMessage `json:"items"`
}

type wireLink struct {
	Type Kind `json:"type"`
	Link
}

type wireInfo struct {
	Type Kind `json:"type"`
	Info
}

type wireFile struct {
	Type Kind `json:"type"`
	File
}

// EncodeItem renders it with its type discriminator.
func EncodeItem(it Item) ([]byte, error) {
	it = Clone(it) // normalizes nil tags to []
	w := Match[any](it,
		func(l Link) any { return wireLink{Type: KindLink, Link: l} },
		func(i Info) any { return wireInfo{Type: KindInfo, Info: i} },
		func(f File) any { return wireFile{Type: KindFile, File: f} },
	)
	return json.Marshal(w)
}

// DecodeItem parses one persisted item.
func DecodeItem(b []byte) (Item, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("item: %w", err)
	}
	var it Item
	switch head.Type {
	case KindLink:
		var w wireLink
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("link: %w", err)
		}
		it = w.Link
	case KindInfo:
		var w wireInfo
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("info: %w", err)
		}
		it = w.Info
	case KindFile:
		var w wireFile
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("file: %w", err)
		}
		it = w.File
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
	}
	return Clone(it), nil
}

// EncodeBlocks serializes the whole collection.
func EncodeBlocks(blocks []Block) ([]byte, error) {
	out := make([]wireBlock, 0, len(blocks))
	for _, b := range blocks {
		wb := wireBlock{ID: b.ID, Name: b.Name, Icon: b.Icon, Items: make([]json.RawMessage, 0, len(b.Items))}
		for _, it := range b.Items {
			raw, err := EncodeItem(it)
			if err != nil {
				return nil, fmt.Errorf("block %s: %w", b.ID, err)
			}
			wb.Items = append(wb.Items, raw)
		}
		out = append(out, wb)
	}
	return json.Marshal(out)
}

// DecodeBlocks parses a collection produced by EncodeBlocks.
func DecodeBlocks(b []byte) ([]Block, error) {
	var wire []wireBlock
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	blocks := make([]Block, 0, len(wire))
	for _, wb := range wire {
		blk := Block{ID: wb.ID, Name: wb.Name, Icon: wb.Icon, Items: make([]Item, 0, len(wb.Items))}
		for _, raw := range wb.Items {
			it, err := DecodeItem(raw)
			if err != nil {
				return nil, fmt.Errorf("block %s: %w", wb.ID, err)
			}
			blk.Items = append(blk.Items, it)
		}
		blocks = append(blocks, blk)
	}
	return blocks, nil
}
