package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabbour/sentinel-mcp-go/internal/catalog"
)

func TestGenerate(t *testing.T) {
	t.Run("emits 100 resources in fixed type order", func(t *testing.T) {
		resources := catalog.NewGenerator(nil).Generate()
		require.Len(t, resources, 100)

		for i, r := range resources {
			switch {
			case i < 60:
				require.Equal(t, catalog.TypeWorker, r.Type)
			case i < 90:
				require.Equal(t, catalog.TypeStorageBin, r.Type)
			default:
				require.Equal(t, catalog.TypeTransporter, r.Type)
			}
		}
	})

	t.Run("statuses are always valid for the type", func(t *testing.T) {
		gen := catalog.NewGenerator(nil)
		for n := 0; n < 20; n++ {
			for _, r := range gen.Generate() {
				require.NotEmpty(t, r.Status)
				require.True(t, catalog.ValidStatus(r.Type, r.Status), "%s has status %q", r.Name, r.Status)
			}
		}
	})

	t.Run("names are sequential and zero padded", func(t *testing.T) {
		resources := catalog.NewGenerator(nil).Generate()
		workers := resources[0:60]
		bins := resources[60:90]
		transporters := resources[90:100]

		require.Equal(t, "worker-001", workers[0].Name)
		require.Equal(t, "worker-030", workers[29].Name)
		require.Equal(t, "worker-060", workers[59].Name)
		require.Equal(t, "bin-001", bins[0].Name)
		require.Equal(t, "bin-015", bins[14].Name)
		require.Equal(t, "bin-030", bins[29].Name)
		require.Equal(t, "transport-001", transporters[0].Name)
		require.Equal(t, "transport-005", transporters[4].Name)
		require.Equal(t, "transport-010", transporters[9].Name)
	})

	t.Run("names are unique within a batch", func(t *testing.T) {
		seen := map[string]bool{}
		for _, r := range catalog.NewGenerator(nil).Generate() {
			require.False(t, seen[r.Name], "duplicate name %s", r.Name)
			seen[r.Name] = true
		}
	})

	t.Run("same seed yields identical sequences", func(t *testing.T) {
		a := catalog.NewSeededGenerator(42)
		b := catalog.NewSeededGenerator(42)
		for n := 0; n < 3; n++ {
			require.Equal(t, a.Generate(), b.Generate())
		}
	})

	t.Run("different seeds vary statuses only", func(t *testing.T) {
		a := catalog.NewSeededGenerator(1).Generate()
		b := catalog.NewSeededGenerator(2).Generate()
		require.Equal(t, namesAndTypes(a), namesAndTypes(b))
		require.NotEqual(t, statuses(a), statuses(b))
	})

	t.Run("repeated calls regenerate statuses", func(t *testing.T) {
		gen := catalog.NewSeededGenerator(7)
		first := gen.Generate()
		second := gen.Generate()
		require.Equal(t, namesAndTypes(first), namesAndTypes(second))
		require.NotEqual(t, statuses(first), statuses(second))
	})

	t.Run("unseeded generator regenerates statuses", func(t *testing.T) {
		gen := catalog.NewGenerator(nil)
		first := gen.Generate()
		second := gen.Generate()
		require.Equal(t, namesAndTypes(first), namesAndTypes(second))
		require.NotEqual(t, statuses(first), statuses(second))
	})

	t.Run("each call returns a fresh slice", func(t *testing.T) {
		gen := catalog.NewSeededGenerator(3)
		first := gen.Generate()
		first[0].Status = "tampered"
		second := gen.Generate()
		require.NotEqual(t, "tampered", second[0].Status)
	})
}

func TestValidStatus(t *testing.T) {
	require.True(t, catalog.ValidStatus("worker", "maintenance"))
	require.True(t, catalog.ValidStatus("transporter", "in-transit-worker-storage-bin"))
	require.False(t, catalog.ValidStatus("worker", "empty"))
	require.False(t, catalog.ValidStatus("worker", "recovering"))
	require.False(t, catalog.ValidStatus("crane", "active"))
}

func TestTypesReturnsCopy(t *testing.T) {
	specs := catalog.Types()
	specs[0].Statuses[0] = "broken"
	require.Equal(t, "active", catalog.Types()[0].Statuses[0])
}

func namesAndTypes(resources []catalog.Resource) [][2]string {
	out := make([][2]string, len(resources))
	for i, r := range resources {
		out[i] = [2]string{r.Name, r.Type}
	}
	return out
}

func statuses(resources []catalog.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Status
	}
	return out
}
