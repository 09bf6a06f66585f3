// Package clientip resolves the address of the calling client.
//
// Behind a reverse proxy, enable trustProxy so CF-Connecting-IP,
// X-Forwarded-For (first valid entry) and X-Real-IP are honoured before the
// TCP peer address. Without it only RemoteAddr is used.
package clientip
