package request_test

import (
	"testing"

	platform "go-leave/internal/shared/request"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientType(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		userAgent string
		want      platform.ClientType
	}{
		{"explicit web header", "web", "", platform.ClientWeb},
		{"explicit mobile header wins over browser ua", "MOBILE", "Mozilla/5.0", platform.ClientMobile},
		{"browser user agent", "", "Mozilla/5.0 (X11; Linux x86_64)", platform.ClientWeb},
		{"android okhttp", "", "okhttp/4.12.0", platform.ClientMobile},
		{"curl", "", "curl/8.4.0", platform.ClientAPI},
		{"empty", "", "", platform.ClientAPI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, platform.ResolveClientType(tc.header, tc.userAgent))
		})
	}
}
