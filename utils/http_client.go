package utils

import (
	"net"
	"net/http"
	"time"
)

// GlobalHTTPClient is the shared pooled client used for economy API calls
// and log webhooks. Request-level timeouts stay short because treasury
// operations block a command interaction while they run.
var GlobalHTTPClient *http.Client

func init() {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   10,
	}

	GlobalHTTPClient = &http.Client{
		Transport: transport,
		Timeout:   15 * time.Second,
	}
}
