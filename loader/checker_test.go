package loader

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/schema"
)

// mixedScript produces one diagnostic of most kinds.
func mixedScript() *Script {
	body := append(easeSetup(2, 3),
		at(10, stmt(call(chain("p", "setTemporalEaseAtKey"), num(1), id("inEase"), id("outEase")))),
		at(11, stmt(call(chain("app", "newProject"), num(1)))),
		at(12, stmt(call(chain("app", "newProjet")))),
		at(13, stmt(assign(chain("app", "project"), null()))),
		at(14, stmt(call(chain("layer", "property"), str("ADBE Positon")))),
		at(15, stmt(assign(chain("comp", "width"), num(3)))),
	)
	return script(body...)
}

func TestCheckIsDeterministic(t *testing.T) {
	c := newTestChecker(t)
	first := c.Check(mixedScript())
	require.Len(t, first, 6)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, c.Check(mixedScript())); diff != "" {
			t.Fatalf("run %d differs (-first +run):\n%s", i, diff)
		}
	}
}

func TestCheckAllMatchesSequential(t *testing.T) {
	c := newTestChecker(t)
	var scripts []*Script
	for i := 0; i < 12; i++ {
		switch i % 3 {
		case 0:
			scripts = append(scripts, mixedScript())
		case 1:
			scripts = append(scripts, script(stmt(call(chain("app", "newProject")))))
		default:
			scripts = append(scripts, script(compSetup(), stmt(assign(chain("comp", "width"), num(2)))))
		}
	}

	want := make([]DiagnosticList, len(scripts))
	for i, s := range scripts {
		want[i] = c.Check(s)
	}
	got, err := c.CheckAll(context.Background(), scripts, 4)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("concurrent results differ (-sequential +concurrent):\n%s", diff)
	}
}

func TestCheckAllCancelled(t *testing.T) {
	c := newTestChecker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CheckAll(ctx, []*Script{mixedScript()}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMaxErrors(t *testing.T) {
	c := newTestChecker(t, WithMaxErrors(2))
	diags := c.Check(mixedScript())
	assert.Len(t, diags, 2)
	assert.Equal(t, []Code{CodeValueShapeMismatch, CodeArityMismatch}, diags.Codes())

	res := c.Run(mixedScript())
	assert.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 4, res.Dropped)

	all, err := c.RunAll(context.Background(), []*Script{mixedScript(), script()}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, all[0].Dropped)
	assert.Zero(t, all[1].Dropped)
	assert.Empty(t, all[1].Diagnostics)
}

func TestSuggestionBounds(t *testing.T) {
	c := newTestChecker(t, WithMemberSuggestions(0, 3))
	diags := c.Check(script(stmt(call(chain("app", "newProjet")))))
	require.Len(t, diags, 1)
	assert.Empty(t, diags[0].Suggestions)

	c = newTestChecker(t, WithMatchNameSuggestions(8, 1))
	diags = c.Check(script(stmt(call(chain("app", "open"), str("ADBE Fil")))))
	require.Len(t, diags, 1)
	assert.Equal(t, []string{"ADBE Fill"}, diags[0].Suggestions)
}

func TestCheckerLogsRuns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestChecker(t, WithLogger(logger))
	c.Check(mixedScript())
	assert.Contains(t, buf.String(), "validated script")
	assert.Contains(t, buf.String(), "diagnostics=6")
}

func TestNewCheckerRequiresFrozenStore(t *testing.T) {
	assert.Panics(t, func() { NewChecker(schema.NewStore(), nil) })
}

func TestQuerySurface(t *testing.T) {
	c := newTestChecker(t)
	assert.True(t, c.TypeExists("CompItem"))
	assert.False(t, c.TypeExists("Comp"))

	assert.True(t, c.MemberExists("CompItem", "name"))
	assert.True(t, c.MemberExists("Project", "item"))
	assert.False(t, c.MemberExists("Item", "width"))

	assert.True(t, c.IsKnownMatchName(matchnames.Effect, "ADBE Tint"))
	assert.False(t, c.IsKnownMatchName(matchnames.Layer, "ADBE Tint"))
	assert.True(t, c.IsKnownMatchName(matchnames.NamespaceNone, "ADBE Tint"))

	assert.Nil(t, c.SuggestMatchName(matchnames.Effect, "ADBE Tint"))
	sugg := c.SuggestMatchName(matchnames.Property, "ADBE Opcity")
	require.NotEmpty(t, sugg)
	assert.Equal(t, "ADBE Opacity", sugg[0].Name)
	assert.Equal(t, 1, sugg[0].Distance)
}
