// Package adapter turns backend-native documents into the externally
// visible file-system-item representation served to synchronization
// clients.
//
// The primary abstraction is [Resolver], which decouples the service
// layer from the per-document-type materialization rules. Resolution is
// strategy based: each [Strategy] declares which documents it can adapt,
// and the resolver memoizes the winning strategy per backend document
// type so the capability scan runs once per type, not once per document.
package adapter

import (
	"context"

	"github.com/nuxeo/drive-sync/models"
)

// Resolver materializes file-system-item snapshots for change records.
type Resolver interface {
	// ResolveChangeToItem loads the document identified by docID and
	// adapts it into an ItemSnapshot. It returns (nil, nil) when the
	// document no longer exists or no strategy can adapt it; the
	// resulting change record then carries no snapshot.
	ResolveChangeToItem(ctx context.Context, docID string) (*models.ItemSnapshot, error)

	// AdaptDoc adapts an already-loaded document. The second return is
	// false when no strategy handles the document's type.
	AdaptDoc(doc models.Doc) (models.ItemSnapshot, bool)

	// IsAdaptable reports whether some strategy can adapt doc into a
	// file-system item.
	IsAdaptable(doc models.Doc) bool
}

// Strategy adapts one family of backend document types.
type Strategy interface {
	// CanAdapt reports whether this strategy handles doc.
	CanAdapt(doc models.Doc) bool

	// Adapt materializes the snapshot for a document this strategy
	// handles. Callers must check CanAdapt first.
	Adapt(doc models.Doc) models.ItemSnapshot
}
