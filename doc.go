// Package rhinoline is a supervised request/response client for the rhino_mcp
// design server. It spawns the server as a long-lived subprocess and drives it
// over line-delimited JSON-RPC on the server's stdin/stdout, while draining
// the server's stderr into structured log events so the subprocess never
// blocks on a full pipe buffer.
//
// # Model
//
//   - [Client] — owns the subprocess and the request channel
//   - [Response] — one decoded reply; a server-sent error member is carried
//     as data in [Response.Err], never raised locally
//   - [Client.Invoke] dispatch is strictly serialized: at most one request is on the
//     wire at a time, and request ids are assigned 1, 2, 3, ... in wire order
//
// Concurrent callers are safe; each call queues on the channel's mutex for
// the full write-request/read-response round trip.
//
// # Quick Start
//
//	c := rhinoline.New(
//	    rhinoline.WithExecutable("python3"),
//	    rhinoline.WithArgs("-m", "rhino_mcp.rhino_mcp.server"),
//	)
//	if err := c.Start(ctx); err != nil { log.Fatal(err) }
//	defer c.Stop(context.Background())
//
//	resp, err := c.Layers(ctx)
//	if err != nil { log.Fatal(err) }
//	if resp.Err != nil { log.Fatal(resp.Err) } // server-side failure
//	fmt.Println(resp.Get("layers.#").Int())
//
// Or use [Run] to scope the subprocess to a function call.
package rhinoline
