package chunk

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestTemplate_Validate(t *testing.T) {
	tests := map[string]struct {
		template Template
		expErr   string
	}{
		"valid": {
			template: Template{Size: 10, Decor: []string{"torch"}, Obstacles: []string{"pillar"}},
		},
		"no items": {
			template: Template{Size: 1},
		},
		"zero size": {
			template: Template{Size: 0},
			expErr:   "size must be a positive integer",
		},
		"negative size": {
			template: Template{Size: -3},
			expErr:   "size must be a positive integer",
		},
		"unnamed decor": {
			template: Template{Size: 10, Decor: []string{"torch", ""}},
			expErr:   "decor 1: name is required",
		},
		"unnamed obstacle": {
			template: Template{Size: 10, Obstacles: []string{""}},
			expErr:   "obstacle 0: name is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.template.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDirection_Offset(t *testing.T) {
	origin := Coordinate{X: 5, Y: 5}

	tests := map[string]struct {
		dir Direction
		exp Coordinate
	}{
		"north": {dir: North, exp: Coordinate{X: 5, Y: 4}},
		"east":  {dir: East, exp: Coordinate{X: 6, Y: 5}},
		"south": {dir: South, exp: Coordinate{X: 5, Y: 6}},
		"west":  {dir: West, exp: Coordinate{X: 4, Y: 5}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "neighbor", origin.Neighbor(tt.dir), tt.exp)
			testutil.AssertEqual(t, "string", tt.dir.String(), name)
		})
	}
}
