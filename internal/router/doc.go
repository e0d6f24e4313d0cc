// Package router merges order books from the market channel stream and the
// REST poller into a single queue for the snapshot writer.
package router
