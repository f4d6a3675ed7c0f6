package tools

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/haasonsaas/agentcore/internal/memorystore"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// MemorySaveTool implements memory_save.
type MemorySaveTool struct{ store *memorystore.Store }

func NewMemorySaveTool(store *memorystore.Store) *MemorySaveTool { return &MemorySaveTool{store: store} }

func (t *MemorySaveTool) Descriptor() models.ToolDescriptor {
	return descriptor("memory_save", "Saves a key/value pair to persistent memory.", "memory", models.RiskLow,
		map[string]models.ParamSchema{
			"key":   param("string", "Memory key", true),
			"value": param("string", "Value to store", true),
		})
}

func (t *MemorySaveTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	key := arg(args, "key")
	if key == "" {
		return "", errorf("key is required")
	}
	if err := t.store.Save(key, arg(args, "value")); err != nil {
		return "", errorf("saving memory: %w", err)
	}
	return "saved " + key, nil
}

// MemoryReadTool implements memory_read.
type MemoryReadTool struct{ store *memorystore.Store }

func NewMemoryReadTool(store *memorystore.Store) *MemoryReadTool { return &MemoryReadTool{store: store} }

func (t *MemoryReadTool) Descriptor() models.ToolDescriptor {
	return descriptor("memory_read", "Reads a previously saved memory value.", "memory", models.RiskLow,
		map[string]models.ParamSchema{"key": param("string", "Memory key", true)})
}

func (t *MemoryReadTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	key := arg(args, "key")
	if key == "" {
		return "", errorf("key is required")
	}
	v, err := t.store.Read(key)
	if err != nil {
		if errors.Is(err, memorystore.ErrNotFound) {
			return "", errorf("no memory found for key %q", key)
		}
		return "", errorf("reading memory: %w", err)
	}
	return v, nil
}

// MemoryListTool implements memory_list.
type MemoryListTool struct{ store *memorystore.Store }

func NewMemoryListTool(store *memorystore.Store) *MemoryListTool { return &MemoryListTool{store: store} }

func (t *MemoryListTool) Descriptor() models.ToolDescriptor {
	return descriptor("memory_list", "Lists every saved memory key.", "memory", models.RiskLow, nil)
}

func (t *MemoryListTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	keys := t.store.List()
	sort.Strings(keys)
	return strings.Join(keys, "\n"), nil
}

// MemoryDeleteTool implements memory_delete.
type MemoryDeleteTool struct{ store *memorystore.Store }

func NewMemoryDeleteTool(store *memorystore.Store) *MemoryDeleteTool {
	return &MemoryDeleteTool{store: store}
}

func (t *MemoryDeleteTool) Descriptor() models.ToolDescriptor {
	return descriptor("memory_delete", "Deletes a saved memory key.", "memory", models.RiskLow,
		map[string]models.ParamSchema{"key": param("string", "Memory key", true)})
}

func (t *MemoryDeleteTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	key := arg(args, "key")
	if key == "" {
		return "", errorf("key is required")
	}
	if err := t.store.Delete(key); err != nil {
		return "", errorf("deleting memory: %w", err)
	}
	return "deleted " + key, nil
}
