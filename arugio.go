package arugio

// DefaultAddr is the address the server listens on when none is configured.
const DefaultAddr = "127.0.0.1:9001"

// WSPath is the HTTP path upgraded to a WebSocket game connection.
const WSPath = "/ws"

// Version is the module version, overridable at link time.
var Version = "dev"
