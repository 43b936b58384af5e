package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapRecord map[string]string

func (m mapRecord) Field(column string) (string, bool) {
	v, ok := m[column]
	return v, ok
}

func TestPredicateSQL(t *testing.T) {
	tests := []struct {
		name     string
		pred     Predicate
		wantSQL  string
		wantArgs []interface{}
	}{
		{"eq", Eq("funnels.user_id", "u1"), "funnels.user_id = ?", []interface{}{"u1"}},
		{"in", In("funnels.website_id", []string{"w1", "w2"}), "funnels.website_id IN ?", []interface{}{[]string{"w1", "w2"}}},
		{"empty in", In("funnels.website_id", nil), "1 = 0", nil},
		{"contains escapes wildcards", ContainsFold("funnels.name", `50%_off\`), "funnels.name ILIKE ?", []interface{}{`%50\%\_off\\%`}},
		{"empty and", And(), "1 = 1", nil},
		{"empty or", Or(), "1 = 0", nil},
		{"single part unwrapped", And(Eq("a", "1")), "a = ?", []interface{}{"1"}},
		{
			"nested junctions parenthesized",
			And(Or(Eq("a", "1"), Eq("b", "2")), Eq("c", "3")),
			"(a = ? OR b = ?) AND c = ?",
			[]interface{}{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.pred.SQL()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPredicateMatch(t *testing.T) {
	rec := mapRecord{
		"funnels.user_id":    "u1",
		"funnels.website_id": "w1",
		"funnels.name":       "Summer Launch",
	}

	assert.True(t, Eq("funnels.user_id", "u1").Match(rec))
	assert.False(t, Eq("funnels.user_id", "u2").Match(rec))
	assert.False(t, Eq("funnels.description", "").Match(rec), "absent column never equals")

	assert.True(t, In("funnels.website_id", []string{"w0", "w1"}).Match(rec))
	assert.False(t, In("funnels.website_id", nil).Match(rec))

	assert.True(t, ContainsFold("funnels.name", "LAUNCH").Match(rec))
	assert.False(t, ContainsFold("funnels.name", "winter").Match(rec))
	assert.False(t, ContainsFold("funnels.description", "x").Match(rec))

	assert.True(t, And().Match(rec))
	assert.False(t, Or().Match(rec))
	assert.True(t, And(Eq("funnels.user_id", "u1"), Or(Eq("funnels.name", "nope"), ContainsFold("funnels.name", "sum"))).Match(rec))
	assert.False(t, And(Eq("funnels.user_id", "u1"), Eq("funnels.website_id", "w2")).Match(rec))
}
