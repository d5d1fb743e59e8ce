package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/config"
	"github.com/janisto/campus-admin/internal/service/account"
)

func TestNewServerTimeouts(t *testing.T) {
	srv, err := newServer(context.Background(), &config.Server{Port: "5001", AuthPath: "/auth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.Addr != ":5001" {
		t.Fatalf("expected :5001, got %q", srv.Addr)
	}
	if srv.ReadHeaderTimeout == 0 || srv.WriteTimeout == 0 || srv.MaxHeaderBytes != 64<<10 {
		t.Fatalf("expected hardened server limits, got %+v", srv)
	}
}

func TestRunServesSeededAdminAndShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	cfg := &config.Server{
		AuthPath:      "/auth",
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret1",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, ln) }()

	base := "http://" + ln.Addr().String()
	api := apiclient.NewClient(&http.Client{Timeout: 5 * time.Second}, apiclient.WithBaseURL(base+"/api"))

	var res *account.AuthResult
	for range 50 {
		res, err = account.NewClient(api).Login(context.Background(), account.Credentials{Email: "admin@example.com", Password: "secret1"})
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("login against running server failed: %v", err)
	}
	if !res.User.IsAdmin() || res.Token == "" {
		t.Fatalf("unexpected auth result: %+v", res)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
