package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveClassPatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantKind  ClassUpdateKind
		wantValue interface{}
		wantErr   error
	}{
		{
			name:      "status wins over every other field",
			body:      map[string]interface{}{"status": "approved", "feedback": "nice", "seats": int64(3), "inrolled": int64(1)},
			wantKind:  ClassUpdateStatus,
			wantValue: "approved",
		},
		{
			name:      "feedback when status is absent",
			body:      map[string]interface{}{"feedback": "needs a syllabus", "seats": int64(3)},
			wantKind:  ClassUpdateFeedback,
			wantValue: "needs a syllabus",
		},
		{
			name:      "empty status falls through to feedback",
			body:      map[string]interface{}{"status": "", "feedback": "ok"},
			wantKind:  ClassUpdateFeedback,
			wantValue: "ok",
		},
		{
			name:      "seats before inrolled",
			body:      map[string]interface{}{"seats": int64(9), "inrolled": int64(11)},
			wantKind:  ClassUpdateSeats,
			wantValue: int64(9),
		},
		{
			name:      "zero seats is falsy without updateKind",
			body:      map[string]interface{}{"seats": int64(0), "inrolled": int64(20)},
			wantKind:  ClassUpdateInrolled,
			wantValue: int64(20),
		},
		{
			name:      "explicit kind allows zero seats",
			body:      map[string]interface{}{"updateKind": "seats", "seats": int64(0), "status": "approved"},
			wantKind:  ClassUpdateSeats,
			wantValue: int64(0),
		},
		{
			name:    "explicit kind needs its field",
			body:    map[string]interface{}{"updateKind": "feedback", "status": "approved"},
			wantErr: ErrMissingUpdateField,
		},
		{
			name:    "unknown kind",
			body:    map[string]interface{}{"updateKind": "price", "price": 10},
			wantErr: ErrUnknownUpdateKind,
		},
		{
			name:    "nothing truthy",
			body:    map[string]interface{}{"status": "", "feedback": nil, "seats": int64(0), "inrolled": false},
			wantErr: ErrNoClassUpdate,
		},
		{
			name:    "empty body",
			body:    map[string]interface{}{},
			wantErr: ErrNoClassUpdate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			patch, err := ResolveClassPatch(tt.body)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, patch.Kind)
			assert.Equal(t, tt.wantValue, patch.Value)
		})
	}
}

func TestClassUpdateKindField(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "status", ClassUpdateStatus.Field())
	assert.Equal(t, "feedback", ClassUpdateFeedback.Field())
	assert.Equal(t, "availableSeats", ClassUpdateSeats.Field())
	assert.Equal(t, "inrolledStudent", ClassUpdateInrolled.Field())
}

func TestTruthy(t *testing.T) {
	t.Parallel()
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(int64(0)))
	assert.False(t, Truthy(json.Number("0")))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(json.Number("2.5")))
	assert.True(t, Truthy(map[string]interface{}{}))
	assert.True(t, Truthy([]interface{}{}))
}

func TestRoleStatusFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RoleStatus{IsAdmin: true}, RoleStatusFor(RoleAdmin))
	assert.Equal(t, RoleStatus{IsInstructor: true}, RoleStatusFor(RoleInstructor))
	assert.Equal(t, RoleStatus{}, RoleStatusFor(""))
	assert.Equal(t, RoleStatus{}, RoleStatusFor("student"))
}
