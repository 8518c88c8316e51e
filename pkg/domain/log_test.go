package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_Tree(t *testing.T) {
	root := EmptyLog().Info("start")
	child := root.Open("login").Warn("slow").Error("denied")
	root = root.Add(child)

	assert.Len(t, root.Children, 2)
	assert.Equal(t, 1, child.Indent)
	assert.Equal(t, 1, child.Children[0].Indent)

	var seen []string
	root.Walk(func(depth int, n Log) {
		seen = append(seen, string(n.Kind)+":"+n.Message)
		if n.Kind == LogWarn {
			assert.Equal(t, 1, depth)
		}
	})
	assert.Equal(t, []string{"info:start", "context:login", "warn:slow", "error:denied"}, seen)
	assert.Equal(t, 1, root.Count(LogError))
	assert.True(t, root.Cleared().IsEmpty())
}

func TestLog_AddDoesNotAlias(t *testing.T) {
	base := EmptyLog().Info("a")
	left := base.Info("b")
	right := base.Info("c")

	assert.Equal(t, "b", left.Children[1].Message)
	assert.Equal(t, "c", right.Children[1].Message)
	assert.Len(t, base.Children, 1)
}
