// Package services groups the external collaborators bluezip shells out to
// and the sentinel error taxonomy used to classify their failures.
package services
