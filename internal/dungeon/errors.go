package dungeon

import "errors"

var (
	ErrInvalidConfig       = errors.New("invalid dungeon configuration")
	ErrMissingCollaborator = errors.New("missing collaborator")
	ErrChunkNotPlaced      = errors.New("no chunk placed there")
)
