/*
Package shipyard is an MCP gateway for deployment platforms.

It exposes a small fixed set of deployment tools (trigger a Vercel or Render
deployment, poll status, list services) behind the Model Context Protocol's
JSON-RPC envelope, so LLM-driven clients can invoke infrastructure actions
through a uniform tool-calling interface.

The Gateway facade wires configuration, the platform provider clients, the
tool registry, the session manager, and the RPC dispatcher into one object
that can serve either transport: streamable HTTP (POST /mcp with
Mcp-Session-Id correlation) or stdio for local agent hosts.

	cfg := config.FromEnv()
	gw, err := shipyard.New(cfg)
	if err != nil { ... }
	defer gw.Close()
	http.ListenAndServe(":"+cfg.Port, gw.Handler())
*/
package shipyard
