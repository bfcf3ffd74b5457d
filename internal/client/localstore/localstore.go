// Package localstore provides the synchronous key-value storage the
// client state containers persist their mirrors into. The stored data
// is advisory: the server remains authoritative for authenticated
// sessions, so a lost or corrupt store only costs a refetch.
package localstore

// Keys owned by the state containers. No other component may write them.
const (
	KeyAuthToken     = "authToken"
	KeyCachedProfile = "cachedProfile"
	KeyGuestCart     = "guestOrMirrorCart"
)

// Store is a synchronous, process-local key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
