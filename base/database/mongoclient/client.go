package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/settlement/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
)

// Client wraps mongo.Client
type Client struct {
	DbName string
	*mongo.Client
}

// Param is the connection setting, loaded from the `mongo` config section
type Param struct {
	URI        string `mapstructure:"uri"`
	AuthDBName string `mapstructure:"authdb"`
	DBName     string `mapstructure:"db"`
	SSL        bool   `mapstructure:"ssl"`
	// SetSafe waits for a majority of replica set members to ack writes
	SetSafe            bool    `mapstructure:"safe"`
	PoolSizeMultiplier float64 `mapstructure:"pool_multiplier"`
}

// MustConnectMongoClient returns MongoDB connection client if connected successfully, or it will trigger panic
func MustConnectMongoClient(p Param) *Client {
	cli, err := ConnectMongoClient(p)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": p.URI, "err": err}).Panic("fail to dial Mongo")
	}
	return cli
}

// ConnectMongoClient returns mongo driver client
func ConnectMongoClient(p Param) (*Client, error) {
	ctx := context.Background()
	connSetting, err := connstring.Parse(p.URI)
	if err != nil {
		log.Log().WithFields(log.Fields{
			"mongoURI": p.URI,
			"dbName":   p.DBName,
			"err":      err,
		}).Error("fail to parse connstring")
		return nil, err
	}

	clientOpts := options.Client()
	clientOpts.ApplyURI(p.URI)
	clientOpts.SetSocketTimeout(mgSocketTimeout)

	// If AuthSource is not set in connstring, set it to authDBName
	if connSetting.Username != "" && connSetting.AuthSource == "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              p.AuthDBName,
		})
	}

	if p.PoolSizeMultiplier > 0 {
		// each host keeps its own pool, so the total is split across hosts
		poolSize := int(float64(runtime.NumCPU()) * p.PoolSizeMultiplier)
		poolSize = (poolSize + len(connSetting.Hosts) - 1) / len(connSetting.Hosts)
		clientOpts.SetMinPoolSize(uint64(poolSize / 4))
		clientOpts.SetMaxPoolSize(uint64(poolSize))
		log.Log().WithField("poolSize", poolSize).Info("mongo driver pool size")
	}

	if p.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}

	if p.SetSafe {
		clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}
	clientOpts.SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     p.DBName,
			"err":        err,
		}).Error("fail to connect mongo db")
		return nil, err
	}

	// Test if mongoDBName is valid
	if _, err := client.Database(p.DBName).ListCollectionNames(ctx, bson.D{}); err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     p.DBName,
			"err":        err,
		}).Error("fail to test mongo db")
		return nil, err
	}

	log.Log().WithFields(log.Fields{
		"mongoHosts": connSetting.Hosts,
		"db":         p.DBName,
	}).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: p.DBName,
	}, nil
}
