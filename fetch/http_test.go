package fetch

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	tls "github.com/refraction-networking/utls"
)

func TestChromeSpec_ALPNLockedToH1(t *testing.T) {
	spec, err := chromeSpec()
	if err != nil {
		t.Fatalf("chromeSpec returned error: %v", err)
	}
	if len(spec.Extensions) == 0 {
		t.Fatal("spec has no extensions")
	}

	found := false
	for _, ext := range spec.Extensions {
		alpn, ok := ext.(*tls.ALPNExtension)
		if !ok {
			continue
		}
		found = true
		if len(alpn.AlpnProtocols) != 1 || alpn.AlpnProtocols[0] != "http/1.1" {
			t.Errorf("ALPN protocols = %v, want [http/1.1]", alpn.AlpnProtocols)
		}
	}
	if !found {
		t.Error("spec has no ALPN extension")
	}
}

func TestChromeSpec_FreshSpecPerConnection(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// The handshake mutates the applied spec, so reusing one across
	// connections breaks the second handshake. Each connection must get
	// its own spec, exactly as the engine's dialer builds one per dial.
	for i := 0; i < 2; i++ {
		spec, err := chromeSpec()
		if err != nil {
			t.Fatalf("conn %d: chromeSpec: %v", i, err)
		}

		conn, err := net.Dial("tcp", srv.Listener.Addr().String())
		if err != nil {
			t.Fatalf("conn %d: dial: %v", i, err)
		}

		tlsConn := tls.UClient(conn, &tls.Config{
			ServerName:         "example.com",
			InsecureSkipVerify: true, // test server uses a self-signed cert
		}, tls.HelloCustom)
		if err := tlsConn.ApplyPreset(&spec); err != nil {
			t.Fatalf("conn %d: apply preset: %v", i, err)
		}
		if err := tlsConn.Handshake(); err != nil {
			t.Fatalf("conn %d: handshake failed: %v", i, err)
		}
		tlsConn.Close()
	}
}
