package redis

import "fmt"

// Key prefix for all host control-plane data
const keyPrefix = "coophost"

// authorizationKey returns the Redis key for the authorization record of a
// save namespace
func authorizationKey(namespace string) string {
	return fmt.Sprintf("%s:%s:authorization", keyPrefix, namespace)
}

// statusKey returns the Redis key for the last published status snapshot
func statusKey(namespace string) string {
	return fmt.Sprintf("%s:%s:status", keyPrefix, namespace)
}
