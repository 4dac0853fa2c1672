package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTokenIssue(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		user  *User
		want  *string
	}{
		{
			name:  "fresh login copies authorization",
			token: Token{ID: "t1"},
			user:  &User{ID: "u1", Authorization: StringPtr("Bearer abc")},
			want:  StringPtr("Bearer abc"),
		},
		{
			name:  "fresh login replaces previous authorization",
			token: Token{ID: "t1", Authorization: StringPtr("old")},
			user:  &User{ID: "u1", Authorization: StringPtr("new")},
			want:  StringPtr("new"),
		},
		{
			name:  "user without authorization leaves token as it was",
			token: Token{ID: "t1", Authorization: StringPtr("kept")},
			user:  &User{ID: "anonymous"},
			want:  StringPtr("kept"),
		},
		{
			name:  "user without authorization on empty token",
			token: Token{ID: "t1"},
			user:  &User{ID: "anonymous"},
			want:  nil,
		},
		{
			name:  "refresh keeps authorization",
			token: Token{ID: "t1", Authorization: StringPtr("Basic dTpw")},
			user:  nil,
			want:  StringPtr("Basic dTpw"),
		},
		{
			name:  "empty string is carried as is",
			token: Token{ID: "t1"},
			user:  &User{ID: "u1", Authorization: StringPtr("")},
			want:  StringPtr(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnTokenIssue(tt.token, tt.user)
			assert.Equal(t, tt.want, got.Authorization)
			assert.Equal(t, tt.token.ID, got.ID)
		})
	}
}

func TestOnTokenIssue_RefreshIsIdentity(t *testing.T) {
	now := time.Now()
	tokens := []Token{
		{},
		{ID: "t1", Subject: "u1", Provider: "scram", ClusterID: "c1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "t2", Authorization: StringPtr("Bearer xyz")},
	}

	for _, token := range tokens {
		once := OnTokenIssue(token, nil)
		assert.Equal(t, token, once)
		assert.Equal(t, once, OnTokenIssue(once, nil))
	}
}

func TestOnTokenIssue_DoesNotAliasUser(t *testing.T) {
	user := &User{ID: "u1", Authorization: StringPtr("Bearer abc")}
	token := OnTokenIssue(Token{}, user)

	*user.Authorization = "changed"
	assert.Equal(t, "Bearer abc", *token.Authorization)
}

func TestOnSessionBuild(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		token   Token
		want    *string
	}{
		{
			name:  "copies authorization",
			token: Token{Authorization: StringPtr("Bearer abc")},
			want:  StringPtr("Bearer abc"),
		},
		{
			name:    "overwrites previous value",
			session: Session{Authorization: StringPtr("stale")},
			token:   Token{Authorization: StringPtr("fresh")},
			want:    StringPtr("fresh"),
		},
		{
			name:    "absent token authorization clears session",
			session: Session{Authorization: StringPtr("stale")},
			token:   Token{},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnSessionBuild(tt.session, tt.token)
			assert.Equal(t, tt.want, got.Authorization)
		})
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	t.Run("authorization reaches session", func(t *testing.T) {
		user := &User{ID: "u1", Authorization: StringPtr("abc")}

		token := OnTokenIssue(Token{}, user)
		session := OnSessionBuild(Session{}, token)

		require.NotNil(t, session.Authorization)
		assert.Equal(t, "abc", *session.Authorization)
	})

	t.Run("absent authorization stays absent", func(t *testing.T) {
		user := &User{ID: "anonymous"}

		token := OnTokenIssue(Token{}, user)
		session := OnSessionBuild(Session{}, token)

		assert.Nil(t, session.Authorization)
	})

	t.Run("session sees the issued token", func(t *testing.T) {
		user := &User{ID: "u1", Authorization: StringPtr("Bearer first")}
		blank := Token{ID: "t1"}

		issued := OnTokenIssue(blank, user)
		session := OnSessionBuild(NewSession(issued), issued)

		require.NotNil(t, session.Authorization)
		assert.Equal(t, "Bearer first", *session.Authorization)
		assert.Nil(t, blank.Authorization)
	})
}
