package config

import (
	"fmt"
	"net"
	"strconv"
)

// ServerConfig holds the listen address of the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// Addr returns host:port for http.Server.
func (sc ServerConfig) Addr() string {
	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
}

// URL is the base URL clients use to reach the server.
func (sc ServerConfig) URL() string {
	return fmt.Sprintf("http://%s", sc.Addr())
}

// IsLoopback reports whether the server only listens on the local machine.
func (sc ServerConfig) IsLoopback() bool {
	if sc.Host == "localhost" {
		return true
	}
	ip := net.ParseIP(sc.Host)
	return ip != nil && ip.IsLoopback()
}
