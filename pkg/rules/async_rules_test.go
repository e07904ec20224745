package rules_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/rules"
	"github.com/dmitrymomot/validkit/pkg/validation"
)

type fakeSet struct {
	mu      sync.Mutex
	members map[string]map[any]bool
	err     error
	calls   int
}

func (f *fakeSet) SIsMember(_ context.Context, key string, member any) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	return redis.NewBoolResult(f.members[key][member], nil)
}

type fakeRow struct {
	exists bool
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.exists
	return nil
}

type fakeDB struct {
	mu    sync.Mutex
	rows  map[any]bool
	err   error
	query string
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.query = sql
	return fakeRow{exists: db.rows[args[0]], err: db.err}
}

func validate(t *testing.T, rule *validation.Rule, value any) (*validation.Results, error) {
	t.Helper()
	p, err := newValidator(t).Parameter(validation.ParamOf("value", anyType, rule))
	require.NoError(t, err)
	return p.Validate(context.Background(), value)
}

func TestExpr(t *testing.T) {
	t.Parallel()

	type Booking struct {
		From int
		To   int
	}

	t.Run("reads the owner", func(t *testing.T) {
		t.Parallel()
		rule := rules.MustExpr("validation.after_from", "value >= owner.From", "must not precede the start")
		v, err := validation.New(validation.StaticDiscovery{
			reflect.TypeFor[Booking](): {{Name: "to", Index: []int{1}, Rules: []*validation.Rule{rule}}},
		}, validation.SkipNone)
		require.NoError(t, err)

		res, err := v.Validate(context.Background(), Booking{From: 5, To: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"must not precede the start"}, res.Messages("to"))

		res, err = v.Validate(context.Background(), Booking{From: 5, To: 9})
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("reads nested owner members and the member name", func(t *testing.T) {
		t.Parallel()
		rule := rules.MustExpr("validation.span", `field == "to" && value - owner.From <= 10`, "spans too long")
		v, err := validation.New(validation.StaticDiscovery{
			reflect.TypeFor[Booking](): {{Name: "to", Index: []int{1}, Rules: []*validation.Rule{rule}}},
		}, validation.SkipNone)
		require.NoError(t, err)

		res, err := v.Validate(context.Background(), &Booking{From: 1, To: 20})
		require.NoError(t, err)
		assert.Equal(t, []string{"spans too long"}, res.Messages("to"))

		res, err = v.Validate(context.Background(), &Booking{From: 1, To: 8})
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("top level values", func(t *testing.T) {
		t.Parallel()
		rule := rules.MustExpr("validation.even", "value % 2 == 0", "must be even")
		res, err := validate(t, rule, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"must be even"}, res.Messages("value"))
		assert.Equal(t, "value % 2 == 0", res.All()[0].Args["expression"])
	})

	t.Run("runtime errors fail the rule", func(t *testing.T) {
		t.Parallel()
		rule := rules.MustExpr("validation.non_empty", "len(value) > 0", "must not be empty")
		res, err := validate(t, rule, 1)
		require.NoError(t, err)
		outcomes := res.All()
		require.Len(t, outcomes, 1)
		assert.NotEmpty(t, outcomes[0].Args["reason"])
	})

	t.Run("rejects invalid expressions", func(t *testing.T) {
		t.Parallel()
		_, err := rules.Expr("x", "value >=", "broken")
		assert.ErrorIs(t, err, rules.ErrInvalidExpression)

		_, err = rules.Expr("x", "'text'", "not boolean")
		assert.ErrorIs(t, err, rules.ErrInvalidExpression)

		assert.Panics(t, func() { rules.MustExpr("x", "value >=", "broken") })
	})
}

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("is asynchronous", func(t *testing.T) {
		t.Parallel()
		rule := rules.Lookup("validation.known", func(context.Context, any) (bool, error) { return true, nil })
		assert.Equal(t, validation.KindAsync, rule.Kind())
	})

	t.Run("reports the verdict", func(t *testing.T) {
		t.Parallel()
		rule := rules.Lookup("validation.known", func(_ context.Context, v any) (bool, error) {
			return v == "known", nil
		}, validation.WithMessage("is unknown"))

		res, err := validate(t, rule, "stranger")
		require.NoError(t, err)
		assert.Equal(t, []string{"is unknown"}, res.Messages("value"))

		res, err = validate(t, rule, "known")
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("errors abort validation", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("directory down")
		rule := rules.Lookup("validation.known", func(context.Context, any) (bool, error) { return false, boom })

		res, err := validate(t, rule, "x")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, validation.ErrRuleEvaluation)
		assert.ErrorIs(t, err, boom)
	})
}

func TestRedisRules(t *testing.T) {
	t.Parallel()

	newSet := func() *fakeSet {
		return &fakeSet{members: map[string]map[any]bool{
			"plans":     {"free": true, "pro": true},
			"usernames": {"alice": true},
		}}
	}

	t.Run("set member", func(t *testing.T) {
		t.Parallel()
		rule := rules.RedisSetMember(newSet(), "plans")

		res, err := validate(t, rule, "pro")
		require.NoError(t, err)
		assert.Nil(t, res)

		res, err = validate(t, rule, ptr("gold"))
		require.NoError(t, err)
		assert.Equal(t, []string{"is not allowed"}, res.Messages("value"))
		assert.Equal(t, "plans", res.All()[0].Args["set"])
	})

	t.Run("not set member", func(t *testing.T) {
		t.Parallel()
		rule := rules.RedisNotSetMember(newSet(), "usernames")

		res, err := validate(t, rule, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"is already taken"}, res.Messages("value"))

		res, err = validate(t, rule, "bob")
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("redis errors are faults", func(t *testing.T) {
		t.Parallel()
		set := newSet()
		set.err = redis.ErrClosed
		res, err := validate(t, rules.RedisSetMember(set, "plans"), "pro")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, validation.ErrRuleEvaluation)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	t.Run("sync path follows the policy", func(t *testing.T) {
		t.Parallel()
		set := newSet()
		v := newValidator(t, validation.WithAsyncPolicy(validation.AsyncIgnore))
		p, err := v.Parameter(validation.Param[string]("plan", rules.RedisSetMember(set, "plans")))
		require.NoError(t, err)

		res, err := p.ValidateSync("gold")
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Zero(t, set.calls)
	})
}

func TestPgRules(t *testing.T) {
	t.Parallel()

	const query = "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)"

	t.Run("exists", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: map[any]bool{"a@example.com": true}}
		rule := rules.PgExists(db, query)

		res, err := validate(t, rule, "a@example.com")
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Equal(t, query, db.query)

		res, err = validate(t, rule, "b@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"does not exist"}, res.Messages("value"))
	})

	t.Run("not exists", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: map[any]bool{"a@example.com": true}}
		rule := rules.PgNotExists(db, query)
		assert.Equal(t, "validation.unique", rule.Name())

		res, err := validate(t, rule, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"is already taken"}, res.Messages("value"))
	})

	t.Run("query errors are faults", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{err: pgx.ErrNoRows}
		res, err := validate(t, rules.PgExists(db, query), "x")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("cancellation is reported as such", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		p, err := newValidator(t).Parameter(validation.Param[string]("email", rules.PgExists(db, query)))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := p.Validate(ctx, "x")
		assert.Nil(t, res)
		assert.True(t, validation.IsCanceled(err))
	})
}
