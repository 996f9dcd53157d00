package adapter

import "github.com/nuxeo/drive-sync/models"

// folderStrategy adapts folderish documents. Folders expose no digest
// or size; clients compare them structurally, by children.
type folderStrategy struct{}

func (folderStrategy) CanAdapt(doc models.Doc) bool {
	return doc.Folderish
}

func (folderStrategy) Adapt(doc models.Doc) models.ItemSnapshot {
	return models.ItemSnapshot{
		ID:         doc.ID,
		Name:       doc.Name,
		Path:       doc.Path,
		ParentID:   doc.ParentID,
		Folderish:  true,
		ModifiedAt: doc.ModifiedAt,
	}
}

// fileStrategy adapts non-folderish documents. The digest and size are
// carried through as stored; contentless documents simply produce a
// snapshot without them.
type fileStrategy struct{}

func (fileStrategy) CanAdapt(doc models.Doc) bool {
	return !doc.Folderish
}

func (fileStrategy) Adapt(doc models.Doc) models.ItemSnapshot {
	return models.ItemSnapshot{
		ID:         doc.ID,
		Name:       doc.Name,
		Path:       doc.Path,
		ParentID:   doc.ParentID,
		Folderish:  false,
		Digest:     doc.Digest,
		SizeBytes:  doc.SizeBytes,
		ModifiedAt: doc.ModifiedAt,
	}
}
