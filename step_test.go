package probe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
)

type (
	E    = probe.NoEnv
	Unit = probe.Unit
)

func TestMonadLaws(t *testing.T) {
	double := func(n int) probe.Action[int] {
		return probe.Then(probe.Info[E]("double"), probe.Pure[E](n*2))
	}
	inc := func(n int) probe.Action[int] { return probe.Pure[E](n + 1) }
	m := probe.Then(probe.Warn[E]("start"), probe.Pure[E](5))

	t.Run("left identity", func(t *testing.T) {
		v1, s1 := run(probe.Bind(probe.Pure[E](3), double))
		v2, s2 := run(double(3))
		assert.Equal(t, v2, v1)
		assert.Equal(t, s2, s1)
	})

	t.Run("right identity", func(t *testing.T) {
		v1, s1 := run(probe.Bind(m, probe.Pure[E, int]))
		v2, s2 := run(m)
		assert.Equal(t, v2, v1)
		assert.Equal(t, s2, s1)
	})

	t.Run("associativity", func(t *testing.T) {
		left := probe.Bind(probe.Bind(m, double), inc)
		right := probe.Bind(m, func(x int) probe.Action[int] { return probe.Bind(double(x), inc) })
		v1, s1 := run(left)
		v2, s2 := run(right)
		assert.Equal(t, 11, v1)
		assert.Equal(t, v2, v1)
		assert.Equal(t, s2, s1)
	})
}

func TestFail(t *testing.T) {
	v, s := run(probe.Fail[E, int]("x"))
	assert.Zero(t, v)
	require.True(t, s.IsFaulted())
	assert.Equal(t, "x", s.Err().Error())
	require.Len(t, s.Log.Children, 1)
	assert.Equal(t, domain.LogError, s.Log.Children[0].Kind)
}

func TestBind_DoesNotShortCircuit(t *testing.T) {
	called := false
	seen := -1
	m := probe.Bind(probe.Fail[E, int]("x"), func(v int) probe.Action[int] {
		called, seen = true, v
		return probe.Pure[E](v + 1)
	})

	_, s := run(m)
	assert.True(t, called)
	assert.Zero(t, seen)
	assert.Len(t, s.Errors, 1)
}

func TestAndThen_SkipsAfterFault(t *testing.T) {
	called := false
	m := probe.AndThen(probe.Fail[E, int]("x"), func(v int) probe.Action[int] {
		called = true
		return probe.Pure[E](v)
	})

	v, s := run(m)
	assert.False(t, called)
	assert.Zero(t, v)
	assert.True(t, s.IsFaulted())
}

func TestOr(t *testing.T) {
	t.Run("first succeeds, second never runs", func(t *testing.T) {
		calls := 0
		second := probe.Func[E](func() int { calls++; return 2 })
		v, s := run(probe.Or(probe.Pure[E](1), second))
		assert.Equal(t, 1, v)
		assert.Equal(t, 0, calls)
		assert.False(t, s.IsFaulted())
	})

	t.Run("first fails, state restored", func(t *testing.T) {
		first := probe.Then(probe.Info[E]("trying"), probe.Fail[E, int]("nope"))
		v, s := run(probe.Or(first, probe.Pure[E](2)))
		assert.Equal(t, 2, v)
		assert.False(t, s.IsFaulted())
		assert.True(t, s.Log.IsEmpty())
	})

	t.Run("fallback value", func(t *testing.T) {
		v, s := run(probe.OrElse(probe.Fail[E, string]("nope"), "default"))
		assert.Equal(t, "default", v)
		assert.False(t, s.IsFaulted())
	})
}

func TestPanicsBecomeFailures(t *testing.T) {
	_, s := run(probe.Func[E](func() int { panic("boom") }))
	require.True(t, s.IsFaulted())
	var pe *domain.PanicError
	assert.ErrorAs(t, s.Err(), &pe)
	assert.Equal(t, "panic: boom", s.Err().Error())

	_, s = run(probe.Map(probe.Pure[E](0), func(n int) int { return 10 / n }))
	assert.True(t, s.IsFaulted())

	var raw probe.Action[int] = func(context.Context, E, domain.RunState) (int, domain.RunState) {
		panic("raw")
	}
	_, s = run(probe.Context("scope", raw))
	assert.True(t, s.IsFaulted())
	assert.Empty(t, s.Trail)
}

func TestTry(t *testing.T) {
	cause := errors.New("connection refused")

	_, s := run(probe.Try[E](func(context.Context) (int, error) { return 0, cause }))
	assert.ErrorIs(t, s.Err(), cause)

	_, s = run(probe.TryLabel[E]("Failed to reach server", func(context.Context) (int, error) { return 0, cause }))
	assert.Equal(t, "Failed to reach server", s.Err().Error())
	assert.ErrorIs(t, s.Err(), cause)

	v, s := run(probe.FromResult[E](domain.Ok(7)))
	assert.Equal(t, 7, v)
	assert.False(t, s.IsFaulted())

	_, s = run(probe.FromResult[E](domain.Fail[int](cause)))
	assert.ErrorIs(t, s.Err(), cause)
}

func TestStateAccess(t *testing.T) {
	m := probe.Then(
		probe.Modify[E](func(s domain.RunState) domain.RunState { return s.PushContext("manual") }),
		probe.Gets[E](func(s domain.RunState) string { return s.TrailString() }),
	)
	v, s := run(m)
	assert.Equal(t, "manual", v)
	assert.Equal(t, []string{"manual"}, s.Trail)

	faulted, _ := run(probe.Then(probe.Fail[E, Unit]("x"), probe.IsFaulted[E]()))
	assert.True(t, faulted)

	fresh := domain.NewRunState(domain.Settings{})
	_, s = run(probe.Then(probe.Fail[E, Unit]("x"), probe.Put[E](fresh)))
	assert.False(t, s.IsFaulted())
}

func TestMapFail(t *testing.T) {
	m := probe.MapFail(probe.Fail[E, int]("low level"), func(err error) error {
		return errors.New("wrapped: " + err.Error())
	})
	_, s := run(m)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "wrapped: low level", s.Errors[0].Error())
}

func TestReplayable(t *testing.T) {
	calls := 0
	m := probe.Func[E](func() int { calls++; return calls })

	v1, _ := run(m)
	v2, _ := run(m)
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestEnv(t *testing.T) {
	type env struct{ base string }

	m := probe.Bind(probe.Ask[env](), func(e env) probe.Step[env, string] {
		return probe.Asks(func(e2 env) string { return e.base + "/" + e2.base })
	})
	v, _ := m.Invoke(context.Background(), env{base: "a"}, domain.NewRunState(domain.Settings{}))
	assert.Equal(t, "a/a", v)

	local := probe.Local(func(e env) string { return e.base + "!" }, probe.Ask[string]())
	v, _ = local.Invoke(context.Background(), env{base: "b"}, domain.NewRunState(domain.Settings{}))
	assert.Equal(t, "b!", v)

	fixed := probe.WithEnv(env{base: "c"}, probe.Asks(func(e env) string { return e.base }))
	v, _ = run(fixed)
	assert.Equal(t, "c", v)
}
