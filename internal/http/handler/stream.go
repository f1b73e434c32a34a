package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"docarchive/internal/domain"
	"docarchive/internal/repository"
)

const streamKeepAlive = 25 * time.Second

// Stream pushes full collection snapshots as server-sent events.
//
//	@Summary	Live collection snapshots
//	@Tags		stream
//	@Produce	text/event-stream
//	@Param		collection	path	string	true	"categories, documents or activity_logs"
//	@Success	200
//	@Failure	400	{object}	errorPayload
//	@Router		/stream/{collection} [get]
func Stream(sub repository.Subscriber, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coll, ok := repository.ParseCollection(c.Params("collection"))
		if !ok {
			return writeServiceError(c, logger, domain.NewValidation("unknown collection"))
		}

		// The request context is recycled once the handler returns; the stream owns its own.
		ctx, cancel := context.WithCancel(context.Background())
		snapshots, unsubscribe, err := sub.Subscribe(ctx, coll)
		if err != nil {
			cancel()
			return writeServiceError(c, logger, err)
		}
		release := sync.OnceFunc(func() {
			unsubscribe()
			cancel()
		})
		streaming := false
		defer func() {
			if !streaming {
				release()
			}
		}()

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")
		if c.Method() == fiber.MethodHead {
			return nil
		}

		streaming = true
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer release()

			// Fails at once when the response body was dropped before streaming began.
			fmt.Fprint(w, ": connected\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			ticker := time.NewTicker(streamKeepAlive)
			defer ticker.Stop()

			for {
				select {
				case snap, ok := <-snapshots:
					if !ok {
						return
					}
					payload, err := json.Marshal(snap.Items)
					if err != nil {
						logger.Error("stream encode failed", "collection", coll, "error", err)
						return
					}
					fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
				case <-ticker.C:
					fmt.Fprint(w, ": keep-alive\n\n")
				}
				// A flush error means the client went away.
				if err := w.Flush(); err != nil {
					return
				}
			}
		}))
		return nil
	}
}
