package config

import (
	"os"
	"sync"
	"time"

	"github.com/jypelle/dsislider/internal/slider"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const saveDelay = 10 * time.Second

type ServerState struct {
	serverStateConfig     ServerStateConfig
	lock                  sync.RWMutex
	backupTimer           *time.Timer
	completeStateFilename string
}

func NewServerState(completeStateFilename string, defaultAxis slider.Axis) (*ServerState, error) {
	serverState := &ServerState{
		completeStateFilename: completeStateFilename,
	}

	rawConfig, err := os.ReadFile(completeStateFilename)
	if err == nil {
		// Interpret state file
		err = yaml.Unmarshal(rawConfig, &serverState.serverStateConfig)
		if err != nil {
			return nil, err
		}
		if _, err = slider.ParseAxis(serverState.serverStateConfig.Axis); err != nil {
			return nil, err
		}
	} else {
		// Create default state file
		logrus.Infof("Create default state file")
		serverState.SetIndex(0)
		serverState.SetAxis(defaultAxis)
	}

	return serverState, nil
}

func (ss *ServerState) Index() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.Index
}

func (ss *ServerState) SetIndex(index int) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.serverStateConfig.Index == index && ss.backupTimer != nil {
		return
	}
	ss.serverStateConfig.Index = index
	ss.scheduleSave()
}

func (ss *ServerState) Axis() slider.Axis {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	axis, _ := slider.ParseAxis(ss.serverStateConfig.Axis)
	return axis
}

func (ss *ServerState) SetAxis(axis slider.Axis) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.serverStateConfig.Axis == axis.String() && ss.backupTimer != nil {
		return
	}
	ss.serverStateConfig.Axis = axis.String()
	ss.scheduleSave()
}

func (ss *ServerState) scheduleSave() {
	if ss.backupTimer == nil {
		ss.backupTimer = time.AfterFunc(saveDelay, func() {
			ss.lock.Lock()
			defer ss.lock.Unlock()
			ss.save()
		})
	} else {
		ss.backupTimer.Reset(saveDelay)
	}
}

func (ss *ServerState) save() {
	logrus.Infof("Save state file: %s", ss.completeStateFilename)
	rawConfig, err := yaml.Marshal(&ss.serverStateConfig)
	if err != nil {
		logrus.Errorf("Unable to serialize state file: %v", err)
		return
	}
	err = os.WriteFile(ss.completeStateFilename, rawConfig, 0660)
	if err != nil {
		logrus.Errorf("Unable to save state file: %v", err)
	}
}

func (ss *ServerState) FlushSave() {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.backupTimer != nil {
		if ss.backupTimer.Stop() {
			ss.save()
		}
	}
}

type ServerStateConfig struct {
	Index int    `yaml:"index"`
	Axis  string `yaml:"axis"`
}
