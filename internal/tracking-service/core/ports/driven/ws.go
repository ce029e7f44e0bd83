package driven

// IFeed pushes accepted position reports to every connected map watcher.
// Broadcast must never block the ingestion path.
type IFeed interface {
	Broadcast(message []byte)
}
