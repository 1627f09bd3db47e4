package main

import (
	"log"
)

func loadFixtures() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.back.LoadFixtures(); err != nil {
		return err
	}

	log.Printf("info: fixtures loaded into %s", a.conf.DatabasePath)

	return nil
}
