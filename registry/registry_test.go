package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures ---

// echoTask stands in for a registered class; a named struct type so the
// fully-qualified type index picks it up.
type echoTask struct{}

type reverseTask struct{}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(nil)
}

func def(category, name string, value any, tags ...string) Definition {
	return Definition{Category: category, Name: name, Value: value, Tags: tags}
}

// --- Add / Find roundtrip ---

func TestRegistry_AddFindRoundtrip(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	got, err := r.Find(Query{Category: "task", Name: "demo_echo"}, ResultKeyValue)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, &echoTask{}, got[0])
}

func TestRegistry_Add_Validation(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{
			name:    "empty category",
			def:     def("", "demo_echo", &echoTask{}),
			wantErr: ErrInvalidKey,
		},
		{
			name:    "empty name",
			def:     def("task", "", &echoTask{}),
			wantErr: ErrConfiguration,
		},
		{
			name:    "nil value",
			def:     def("task", "demo_echo", nil),
			wantErr: ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			err := r.Add(tt.def)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, r.Len())
		})
	}
}

// Re-registering the same key replaces the record wholesale, including
// tracked instance history.
func TestRegistry_Add_ReplacesOnDuplicateKey(t *testing.T) {
	r := newTestRegistry(t)

	first := def("task", "demo_echo", &echoTask{})
	first.TrackInstances = true
	require.NoError(t, r.Add(first))
	require.NoError(t, r.TrackInstance("task", "demo_echo", &echoTask{}))

	require.NoError(t, r.Add(def("task", "demo_echo", &reverseTask{})))

	got, err := r.Find(Query{Category: "task", Name: "demo_echo"}, ResultKeyValue)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, &reverseTask{}, got[0], "find must never return the replaced class")

	assert.Empty(t, r.FindInstances(Query{Category: "task", Name: "demo_echo"}),
		"instance history must not survive re-registration")
	assert.Equal(t, 1, r.Len())
}

// --- Find semantics ---

func TestRegistry_Find_CriteriaAreANDed(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{}, "demo")))
	require.NoError(t, r.Add(def("report", "demo_echo", &reverseTask{})))

	got, err := r.Find(Query{Category: "task", Name: "demo_echo", Tags: []string{"demo"}}, ResultKeyValue)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, &echoTask{}, got[0])

	got, err = r.Find(Query{Category: "report", Tags: []string{"demo"}}, ResultKeyValue)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegistry_Find_TagsAreORedAndCaseSensitive(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "aws_scan", &echoTask{}, "Aws")))
	require.NoError(t, r.Add(def("task", "gcp_scan", &reverseTask{}, "gcp")))

	got, err := r.Find(Query{Tags: []string{"aws"}}, ResultKeyValue)
	require.NoError(t, err)
	assert.Empty(t, got, "tag match is case-sensitive")

	got, err = r.Find(Query{Tags: []string{"Aws", "gcp"}}, ResultKeyValue)
	require.NoError(t, err)
	assert.Len(t, got, 2, "tags combine with OR")
}

func TestRegistry_Find_NoMatchIsEmptyNotError(t *testing.T) {
	r := newTestRegistry(t)
	got, err := r.Find(Query{Category: "task", Name: "missing"}, ResultKeyValue)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegistry_Find_UnrecognizedResultKey(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	_, err := r.Find(Query{Category: "task"}, ResultKey("cls"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

// The record projection exposes the full record for every match the value
// projection returns.
func TestRegistry_Find_RecordProjection(t *testing.T) {
	r := newTestRegistry(t)
	d := def("task", "demo_echo", &echoTask{}, "demo")
	d.TrackInstances = true
	require.NoError(t, r.Add(d))
	require.NoError(t, r.TrackInstance("task", "demo_echo", &echoTask{}))

	values, err := r.Find(Query{Category: "task"}, ResultKeyValue)
	require.NoError(t, err)
	records, err := r.Find(Query{Category: "task"}, ResultKeyRecord)
	require.NoError(t, err)
	require.Len(t, records, len(values))

	rec, ok := records[0].(Record)
	require.True(t, ok)
	assert.Equal(t, "task", rec.Category)
	assert.Equal(t, "demo_echo", rec.Name)
	assert.Equal(t, []string{"demo"}, rec.Tags)
	require.Len(t, rec.Instances, 1)
	assert.IsType(t, &echoTask{}, rec.Value)
}

// --- scenario: one plugin-provided task ---

func TestRegistry_DemoEchoScenario(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{}, "demo")))

	byCategory, err := r.Find(Query{Category: "task"}, ResultKeyValue)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	byName, err := r.Find(Query{Name: "demo_echo"}, ResultKeyValue)
	require.NoError(t, err)
	assert.Equal(t, byCategory, byName)

	other, err := r.Find(Query{Category: "report"}, ResultKeyValue)
	require.NoError(t, err)
	assert.Empty(t, other)
}

// --- Remove ---

func TestRegistry_Remove_Idempotent(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	require.NoError(t, r.Remove("task", "demo_echo"))
	require.NoError(t, r.Remove("task", "demo_echo"), "second remove must not error")

	got, err := r.Find(Query{Category: "task", Name: "demo_echo"}, ResultKeyValue)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegistry_Remove_EmptyKey(t *testing.T) {
	r := newTestRegistry(t)
	assert.ErrorIs(t, r.Remove("", "demo_echo"), ErrInvalidKey)
	assert.ErrorIs(t, r.Remove("task", ""), ErrInvalidKey)
}

// --- instance tracking ---

func TestRegistry_TrackInstance_Order(t *testing.T) {
	r := newTestRegistry(t)
	d := def("task", "demo_echo", &echoTask{})
	d.TrackInstances = true
	require.NoError(t, r.Add(d))

	first, second, third := &echoTask{}, &echoTask{}, &echoTask{}
	require.NoError(t, r.TrackInstance("task", "demo_echo", first))
	require.NoError(t, r.TrackInstance("task", "demo_echo", second))
	require.NoError(t, r.TrackInstance("task", "demo_echo", third))

	got, err := r.Find(Query{Category: "task", Name: "demo_echo"}, ResultKeyInstances)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Same(t, first, got[0])
	assert.Same(t, second, got[1])
	assert.Same(t, third, got[2])
}

func TestRegistry_TrackInstance_UntrackedDefinitionIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	require.NoError(t, r.TrackInstance("task", "demo_echo", &echoTask{}))
	assert.Empty(t, r.FindInstances(Query{Category: "task", Name: "demo_echo"}))
}

func TestRegistry_TrackInstance_MissingRecord(t *testing.T) {
	r := newTestRegistry(t)
	err := r.TrackInstance("task", "missing", &echoTask{})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// --- fast path ---

func TestRegistry_FindDefinitions_FullyQualifiedName(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	got := r.FindDefinitions(Query{Name: "github.com/cloudharvest/plugincore/registry.echoTask"})
	require.Len(t, got, 1)
	assert.IsType(t, &echoTask{}, got[0])

	// Same semantics as the scan path.
	scan := r.FindDefinitions(Query{Category: "task", Name: "demo_echo"})
	assert.Equal(t, scan, got)
}

func TestRegistry_FindDefinitions_FastPathRespectsOtherCriteria(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))

	got := r.FindDefinitions(Query{
		Category: "report",
		Name:     "github.com/cloudharvest/plugincore/registry.echoTask",
	})
	assert.Empty(t, got)
}

// --- housekeeping ---

func TestRegistry_Clear(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "demo_echo", &echoTask{})))
	require.NoError(t, r.Add(def("report", "usage", map[string]any{"description": "usage report"})))
	require.Equal(t, 2, r.Len())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Records())
}

func TestRegistry_Records_InsertionOrder(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(def("task", "a", &echoTask{})))
	require.NoError(t, r.Add(def("task", "b", &reverseTask{})))
	require.NoError(t, r.Add(def("report", "c", map[string]any{})))

	recs := r.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "a", recs[0].Name)
	assert.Equal(t, "b", recs[1].Name)
	assert.Equal(t, "c", recs[2].Name)
}
