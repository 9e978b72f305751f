package command

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-testutil"
)

func writeAsset(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assetDirs lays out one item, one table, and one placement under a temp dir.
func assetDirs(t *testing.T) StorageConfig {
	t.Helper()
	root := t.TempDir()

	writeAsset(t, filepath.Join(root, "items"), "gold.json",
		`{"version":1,"id":"gold","spec":{"kind":"currency","max_stack":1000}}`)
	writeAsset(t, filepath.Join(root, "tables"), "coins.json",
		`{"version":1,"id":"coins","spec":{"rows":[{"item":"gold","min":1,"max":5,"weight":1}]}}`)
	writeAsset(t, filepath.Join(root, "placements"), "chest.json",
		`{"version":1,"id":"chest","spec":{"table":"coins","mode":"weighted_one","lifecycle":"keep","respawn":"1m"}}`)

	cfg := StorageConfig{}
	cfg.Items.Path = filepath.Join(root, "items")
	cfg.LootTables.Path = filepath.Join(root, "tables")
	cfg.Placements.Path = filepath.Join(root, "placements")
	cfg.Actors.Path = filepath.Join(root, "actors")
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(c *Config)
		expErrs []string
	}{
		"valid": {
			mutate: func(c *Config) {},
		},
		"bad tick interval": {
			mutate:  func(c *Config) { c.TickInterval = "soon" },
			expErrs: []string{"parsing tick_interval"},
		},
		"tick interval too short": {
			mutate:  func(c *Config) { c.TickInterval = "1ms" },
			expErrs: []string{"tick_interval must be at least 100ms"},
		},
		"missing paths": {
			mutate: func(c *Config) {
				c.Storage.Items.Path = ""
				c.Storage.Placements.Path = ""
			},
			expErrs: []string{"items: path is required", "placements: path is required"},
		},
		"nonexistent path": {
			mutate:  func(c *Config) { c.Storage.LootTables.Path = "/does/not/exist" },
			expErrs: []string{`loot_tables: invalid path "/does/not/exist"`},
		},
		"bad nats settings": {
			mutate: func(c *Config) {
				c.Nats.StartTimeout = "later"
				c.Nats.Port = 70000
			},
			expErrs: []string{"parsing start_timeout", "port must be between 0 and 65535"},
		},
		"bad world settings": {
			mutate: func(c *Config) {
				c.World.MaxLootDistance = -1
				c.World.BackpackSize = inventory.MaxBackpackSize + 1
				c.World.EquipmentLayout = [][]string{{"head"}, {"tail"}}
			},
			expErrs: []string{
				"max_loot_distance must not be negative",
				"backpack_size must be at most",
				`equipment_layout 1: unknown capability "tail"`,
			},
		},
		"bad rejection template": {
			mutate:  func(c *Config) { c.Messages.Rejections = map[string]string{"stack_full": "{{ .Nope"} },
			expErrs: []string{`template "stack_full"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{TickInterval: "1s", Storage: assetDirs(t)}
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			for _, e := range tt.expErrs {
				testutil.AssertErrorContains(t, err, e)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("STASH_TICK_INTERVAL", "250ms")
	t.Setenv("STASH_NATS_PORT", "4333")
	t.Setenv("STASH_WORLD_SEED", "42")
	t.Setenv("STASH_STORAGE_ACTORS_PATH", "/var/lib/stash/actors")

	cfg := &Config{
		TickInterval: "1s",
		Nats:         NatsConfig{Host: "127.0.0.1", Port: 4222},
		World:        WorldConfig{BackpackSize: 20},
	}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "tick interval", cfg.tickLength(), 250*time.Millisecond)
	testutil.AssertEqual(t, "nats", cfg.Nats, NatsConfig{Host: "127.0.0.1", Port: 4333})
	testutil.AssertEqual(t, "seed", cfg.World.Seed, uint64(42))
	testutil.AssertEqual(t, "backpack size", cfg.World.BackpackSize, 20)
	testutil.AssertEqual(t, "actors path", cfg.Storage.Actors.Path, "/var/lib/stash/actors")
}

func TestWorldConfig_Layout(t *testing.T) {
	tests := map[string]struct {
		names  [][]string
		exp    inventory.EquipmentLayout
		expErr string
	}{
		"default": {
			exp: inventory.DefaultEquipmentLayout,
		},
		"custom": {
			names: [][]string{{"main_hand", "off_hand"}, {"ring"}},
			exp:   inventory.EquipmentLayout{item.CapMainHand | item.CapOffHand, item.CapRing},
		},
		"empty slot": {
			names:  [][]string{{"head"}, {}},
			expErr: "equipment slot 1 has no required capability",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := &WorldConfig{EquipmentLayout: tt.names}
			layout, err := c.layout()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "layout", layout, tt.exp)
		})
	}
}

func TestStorageConfig_BuildAssets(t *testing.T) {
	cfg := assetDirs(t)

	assets, err := cfg.BuildAssets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "items", assets.Catalog.Len(), 1)

	chest, ok := assets.Placements.Get("chest")
	if !ok {
		t.Fatalf("placement not loaded")
	}
	testutil.AssertEqual(t, "table resolved", chest.Table.Get() != nil, true)
	testutil.AssertEqual(t, "respawn", chest.RespawnAfter(), time.Minute)

	if _, err := os.Stat(cfg.Actors.Path); err != nil {
		t.Errorf("actors directory not created: %v", err)
	}
}

func TestStorageConfig_BuildAssets_InMemoryActors(t *testing.T) {
	cfg := assetDirs(t)
	cfg.Actors.Path = ""

	assets, err := cfg.BuildAssets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "actors", len(assets.Actors.GetAll()), 0)
}

func TestStorageConfig_BuildAssets_UnresolvedTable(t *testing.T) {
	cfg := assetDirs(t)
	writeAsset(t, cfg.Placements.Path, "crate.json",
		`{"version":1,"id":"crate","spec":{"table":"missing","mode":"weighted_one","lifecycle":"destroy"}}`)

	_, err := cfg.BuildAssets()
	testutil.AssertErrorContains(t, err, "placement crate")
}
