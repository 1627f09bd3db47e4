package main

import (
	"elorank/internal/back"
	"elorank/internal/config"
	"elorank/internal/leaderboard"
	"elorank/internal/util"

	"github.com/redis/go-redis/v9"
)

// app holds what a command needs to talk to the rating store.
type app struct {
	conf   *config.Config
	back   *back.Back
	rdb    *redis.Client
	mirror *leaderboard.Mirror
}

func newApp() (*app, error) {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return nil, err
	}

	b, err := back.New("sqlite3", conf.DatabasePath, conf.EloConfig())
	if err != nil {
		return nil, err
	}

	a := &app{conf: conf, back: b}
	if conf.RedisAddress != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddress,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		})
		a.mirror = leaderboard.NewMirror(a.rdb)
		b.AddObserver(a.mirror)
	}

	return a, nil
}

func (a *app) Close() error {
	errs := []error{a.back.Close()}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}

	return util.ConcatErrors(errs)
}
