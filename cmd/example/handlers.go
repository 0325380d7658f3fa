package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
	"github.com/dmitrymomot/webcore/core/store"
)

// greeting is app-wide data shared by all requests.
type greeting string

func homePage(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<!doctype html><title>%[1]s</title><h1>%[1]s</h1>", html.EscapeString(title))
		return err
	})
}

func homeHandler(req *handler.Request) (*handler.Response, error) {
	g, _ := store.Get[greeting](req.AppData())
	return response.Templ(req.Context(), homePage(string(g)))
}

func userHandler(req *handler.Request) (*handler.Response, error) {
	id := req.Param("id")
	if id == "0" {
		return nil, response.NotFound("user not found")
	}
	return response.JSON(map[string]string{"id": id})
}

func echoHandler(req *handler.Request) (*handler.Response, error) {
	if !req.HasBody() {
		return nil, response.BadRequest("request body is required")
	}
	ct := req.Header.Get("Content-Type")
	if ct == "" {
		ct = response.ContentTypeOctet
	}
	return response.Bytes(req.Body, ct), nil
}

// clockHandler streams the server time once per second until the client leaves.
func clockHandler(req *handler.Request) (*handler.Response, error) {
	ctx := req.Context()
	events := make(chan any)
	go func() {
		defer close(events)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				select {
				case events <- map[string]string{"time": t.UTC().Format(time.RFC3339)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return response.SSE(ctx, events, response.WithEventName("tick")), nil
}

func slowHandler(req *handler.Request) (*handler.Response, error) {
	select {
	case <-time.After(time.Minute):
		return response.Text("done"), nil
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
}
