package syncer

import "errors"

// ErrNoRemoteData is returned by Download when no tool has a remote
// document.
var ErrNoRemoteData = errors.New("no remote data found, upload first")
