package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/metrics"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2
)

type redImpl struct {
	name  string
	met   metrics.Service
	pools *Pools
}

// Pools represents different pool types
type Pools struct {
	Src *redis.Pool
}

// New redis pool
func New(name string, metrics metrics.Service, pools *Pools) Service {
	return &redImpl{
		name:  name,
		met:   metrics,
		pools: pools,
	}
}

func (r *redImpl) getConn(command string) (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pools.Src.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}

	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn(commandName)
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// Closing conn explicitly asap improves redigo's performance,
	// bacause longer an connection is hold and not closed, the
	// pool need to handle more connections at the same time and
	// getConn time might burst.
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "get").End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("GET failed")
		return nil, err
	}
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "set").End()

	var err error
	if expire == Forever {
		_, err = r.connDo(context, "SET", key, val)
	} else {
		_, err = r.connDo(context, "SET", key, val, "EX", int(expire.Seconds()))
	}
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("SET failed")
		return err
	}
	return nil
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "setnx").End()

	var err error
	if expire == Forever {
		_, err = r.connDo(context, "SET", key, val, "NX")
	} else {
		_, err = r.connDo(context, "SET", key, val, "EX", int(expire.Seconds()), "NX")
	}
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("SETNX failed")
		return err
	}
	return nil
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "del").End()

	args := make([]interface{}, len(ks))
	for i, k := range ks {
		args[i] = k
	}
	n, err := redis.Int(r.connDo(context, "DEL", args...))
	if err != nil {
		context.WithFields(log.Fields{"err": err, "keys": ks}).Error("DEL failed")
		return 0, err
	}
	return n, nil
}

func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "exists").End()

	n, err := redis.Int(r.connDo(context, "EXISTS", key))
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("EXISTS failed")
		return false, err
	}
	return n == 1, nil
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "ttl").End()

	ttl, err := redis.Int(r.connDo(context, "TTL", key))
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("TTL failed")
		return 0, err
	}
	if ttl == retTTLNoKey {
		return 0, ErrNotFound
	}
	return ttl, nil
}

func (r *redImpl) Incrby(context ctx.Ctx, key string, val int) (int64, error) {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "incrby").End()

	n, err := redis.Int64(r.connDo(context, "INCRBY", key, val))
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("INCRBY failed")
		return 0, err
	}
	return n, nil
}

func (r *redImpl) Expire(context ctx.Ctx, key string, ttl time.Duration) error {
	defer r.met.BumpTime("time", "cluster", r.name, "command", "expire").End()

	var err error
	if ttl == Forever {
		_, err = r.connDo(context, "PERSIST", key)
	} else {
		_, err = r.connDo(context, "EXPIRE", key, int(ttl.Seconds()))
	}
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("EXPIRE failed")
		return err
	}
	return nil
}
