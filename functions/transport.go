package functions

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

var (
	proxyIndex int
	proxyMu    sync.Mutex
)

func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		DisableKeepAlives:   false,
	}
}

// ProxyTransport returns the transport for crawl fetches. With an empty
// proxy list it is a plain pooled transport; otherwise requests are dialed
// through the SOCKS5 proxies round-robin.
func ProxyTransport(proxyAddrs []string) *http.Transport {
	if len(proxyAddrs) == 0 {
		return defaultTransport()
	}

	proxyMu.Lock()
	socks5Addr := proxyAddrs[proxyIndex%len(proxyAddrs)]
	proxyIndex++
	proxyMu.Unlock()

	dialer, err := proxy.SOCKS5("tcp", socks5Addr, nil, proxy.Direct)
	if err != nil {
		log.Printf("Failed to create SOCKS5 dialer for %s: %v", socks5Addr, err)
		return defaultTransport()
	}

	transport := defaultTransport()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}
	return transport
}
