package synapse

// RealtimeGateway is the boundary to an optional real-time messaging
// transport. The core stores the reference for application code to
// reach; it never drives the transport's protocol.
type RealtimeGateway interface {
	// OnConnectionEvent registers a callback for connection lifecycle events
	OnConnectionEvent(fn func(event string, payload any))

	// Emit publishes an event with a payload to connected clients
	Emit(event string, payload any) error
}
