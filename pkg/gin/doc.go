// Package gin talks to the INTERMAGNET Geomagnetic Information Node.
//
// DataRequest describes one GetData query and knows the local file name the
// result is stored under. Client performs the GET, optionally through a
// forward proxy and with HTTP basic authentication.
package gin
