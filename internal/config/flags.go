package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-clustering enable the clustered-repository safety margin
//	-clustering-delay replication-lag safety margin (e.g., "5s")
//	-change-limit per-repository change count limit for one poll
//	-scroll-max-concurrent cap on concurrently open scroll sessions
//	-scroll-max-batch ceiling for a scroll batch size
//	-scroll-keep-alive default cursor inactivity lifetime (e.g., "1m")
//	-scroll-sweep-interval expiry sweep period (e.g., "15s")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var clusteringEnabled bool
	var clusteringDelay time.Duration
	var changeLimit int
	var scrollMaxConcurrent int64
	var scrollMaxBatch int
	var scrollKeepAlive time.Duration
	var scrollSweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.BoolVar(&clusteringEnabled, "clustering", false, "Repositories are served by more than one node")
	flag.DurationVar(&clusteringDelay, "clustering-delay", 0, "Replication lag safety margin (e.g., 5s)")
	flag.IntVar(&changeLimit, "change-limit", 0, "Per-repository change count limit for one poll")
	flag.Int64Var(&scrollMaxConcurrent, "scroll-max-concurrent", 0, "Max concurrently open scroll sessions")
	flag.IntVar(&scrollMaxBatch, "scroll-max-batch", 0, "Scroll batch size ceiling")
	flag.DurationVar(&scrollKeepAlive, "scroll-keep-alive", 0, "Default scroll cursor keep-alive (e.g., 1m)")
	flag.DurationVar(&scrollSweepInterval, "scroll-sweep-interval", 0, "Scroll cursor expiry sweep period (e.g., 15s)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			ClusteringEnabled: clusteringEnabled,
			ClusteringDelay:   clusteringDelay,
			ChangeLimit:       changeLimit,
		},
		Scroll: Scroll{
			MaxConcurrent:    scrollMaxConcurrent,
			MaxBatchSize:     scrollMaxBatch,
			DefaultKeepAlive: scrollKeepAlive,
			SweepInterval:    scrollSweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
