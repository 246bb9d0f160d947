package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func known(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestBuild_DropsDanglingEdges(t *testing.T) {
	g := Build(map[string][]string{
		"2": {"1", "99"},
		"7": {"1"},
	}, known("1", "2"), zap.NewNop())

	assert.Equal(t, []string{"1"}, g.Prereqs("2"))
	assert.Empty(t, g.Prereqs("7"), "edges of unknown successor are dropped")
	assert.Empty(t, g.CycleMembers())
}

func TestBuild_DuplicatesAreIdempotent(t *testing.T) {
	g := Build(map[string][]string{
		"2": {"1", "1", "1"},
	}, known("1", "2"), zap.NewNop())

	assert.Equal(t, []string{"1"}, g.Prereqs("2"))
}

func TestBuild_PrereqsSortedNumerically(t *testing.T) {
	g := Build(map[string][]string{
		"20": {"10", "2", "9"},
	}, known("2", "9", "10", "20"), zap.NewNop())

	assert.Equal(t, []string{"2", "9", "10"}, g.Prereqs("20"))
}

func TestCycleMembers_TwoNodeCycle(t *testing.T) {
	g := Build(map[string][]string{
		"1": {"2"},
		"2": {"1"},
		"3": {"1"},
	}, known("1", "2", "3"), zap.NewNop())

	assert.Equal(t, []string{"1", "2"}, g.CycleMembers())
}

func TestCycleMembers_SelfLoop(t *testing.T) {
	g := Build(map[string][]string{
		"5": {"5"},
		"6": {"5"},
	}, known("5", "6"), zap.NewNop())

	assert.Equal(t, []string{"5"}, g.CycleMembers())
	assert.Empty(t, g.Prereqs("5"), "self edge is not a usable prerequisite")
}

func TestCycleMembers_LongCycleWithTail(t *testing.T) {
	// 1 -> 2 -> 3 -> 1 is a cycle; 4 depends into it but is not a member.
	g := Build(map[string][]string{
		"1": {"2"},
		"2": {"3"},
		"3": {"1"},
		"4": {"3"},
	}, known("1", "2", "3", "4"), zap.NewNop())

	assert.Equal(t, []string{"1", "2", "3"}, g.CycleMembers())
}

func TestCycleMembers_Deterministic(t *testing.T) {
	edges := map[string][]string{
		"1": {"2"}, "2": {"1"},
		"8": {"9"}, "9": {"8"},
	}
	k := known("1", "2", "8", "9")
	first := Build(edges, k, zap.NewNop()).CycleMembers()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Build(edges, k, zap.NewNop()).CycleMembers())
	}
	assert.Equal(t, []string{"1", "2", "8", "9"}, first)
}

func TestEdges_DeterministicOrder(t *testing.T) {
	g := Build(map[string][]string{
		"10": {"2"},
		"3":  {"1", "2"},
	}, known("1", "2", "3", "10"), zap.NewNop())

	assert.Equal(t, [][2]string{
		{"3", "1"},
		{"3", "2"},
		{"10", "2"},
	}, g.Edges())
}
