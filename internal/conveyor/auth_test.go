package conveyor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCredential(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		want       AuthMode
	}{
		{
			name:       "session id marker",
			credential: "connect.sid=s%3Aabc123; other=1",
			want:       AuthSessionCookie,
		},
		{
			name:       "session signature marker",
			credential: "foo=bar; session.sig=xyz",
			want:       AuthSessionCookie,
		},
		{
			name:       "both markers",
			credential: "connect.sid=s%3Aabc; session.sig=xyz",
			want:       AuthSessionCookie,
		},
		{
			name:       "marker embedded mid-string",
			credential: "prefixconnect.sid=value",
			want:       AuthSessionCookie,
		},
		{
			name:       "plain access key",
			credential: "ak_9f8e7d6c5b4a",
			want:       AuthAccessKey,
		},
		{
			name:       "cookie-looking string without markers",
			credential: "sid=abc; sig=xyz",
			want:       AuthAccessKey,
		},
		{
			name:       "empty string",
			credential: "",
			want:       AuthAccessKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCredential(tt.credential))
		})
	}
}

func TestClassifyCredential_Deterministic(t *testing.T) {
	// Same input must always yield the same mode.
	for i := 0; i < 10; i++ {
		assert.Equal(t, AuthSessionCookie, ClassifyCredential("session.sig=abc"))
		assert.Equal(t, AuthAccessKey, ClassifyCredential("ak_token"))
	}
}
