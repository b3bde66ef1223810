package filestorage

import "mime/multipart"

// FileStorage defines the interface for stored student images.
type FileStorage interface {
	// SaveFileWithPath stores a file under the given subdirectory and
	// returns the URL the file is reachable at.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a file that no
	// longer exists is not an error.
	DeleteFile(fileURL string) error
}
