package dungeon

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestConfig_Sizes(t *testing.T) {
	tests := map[string]struct {
		baseMapSize  int
		drawDistance int
		expPool      int
		expWindow    int
	}{
		"default":             {baseMapSize: 3, drawDistance: 1, expPool: 9, expWindow: 9},
		"window exceeds pool": {baseMapSize: 4, drawDistance: 2, expPool: 16, expWindow: 25},
		"single chunk":        {baseMapSize: 1, drawDistance: 0, expPool: 1, expWindow: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Config{BaseMapSize: tt.baseMapSize, DrawDistance: tt.drawDistance}
			testutil.AssertEqual(t, "pool", cfg.PoolSize(), tt.expPool)
			testutil.AssertEqual(t, "window", cfg.WindowSize(), tt.expWindow)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		cfg    func(*Config)
		expErr []string
	}{
		"defaults are valid": {},
		"threshold bounds are inclusive": {
			cfg: func(c *Config) { c.PlacementValue = 1 },
		},
		"reports every problem": {
			cfg: func(c *Config) {
				c.BaseMapSize = -2
				c.NoiseFixer = 0
				c.AxisSignX = 3
			},
			expErr: []string{
				"base map size must be positive, got -2",
				"noise fixer must be within [0.01, 0.99], got 0",
				"axis sign x must be -1, 0 or 1, got 3",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			err := cfg.Validate()

			if len(tt.expErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, exp := range tt.expErr {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}
