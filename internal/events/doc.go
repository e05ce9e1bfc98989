// Package events provides a minimal in-process event system used to
// decouple the flashcard store from its persistence collaborator. The
// store emits a change event after every mutation; handlers react to it
// (for example by scheduling a snapshot save) without the store knowing
// about any concrete storage mechanism.
package events
