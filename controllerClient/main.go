package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/net/websocket"
	"golang.org/x/sys/unix"
)

type controllerMessage struct {
	MessageType string  `json:"messageType"`
	Angle       float64 `json:"angle,omitempty"`
	Initials    string  `json:"initials,omitempty"`
}

const angleStep = 2.0

func setRawMode(fileDescriptor uintptr) (*unix.Termios, error) {
	terminalSettings, err := unix.IoctlGetTermios(int(fileDescriptor), unix.TCGETS)
	if err != nil {
		return nil, err
	}
	savedTerminalSettings := *terminalSettings
	terminalSettings.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	terminalSettings.Oflag &^= unix.OPOST
	terminalSettings.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	terminalSettings.Cflag &^= unix.CSIZE | unix.PARENB
	terminalSettings.Cflag |= unix.CS8
	terminalSettings.Oflag |= unix.ONLCR

	if err := unix.IoctlSetTermios(int(fileDescriptor), unix.TCSETS, terminalSettings); err != nil {
		return nil, err
	}
	return &savedTerminalSettings, nil
}

func send(conn *websocket.Conn, msg controllerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		fmt.Println("Error marshalling message:", err)
		return
	}
	if _, err := conn.Write(payload); err != nil {
		fmt.Println("Error sending to server:", err)
		os.Exit(1)
	}
}

func main() {
	websocketConnection, err := websocket.Dial("ws://localhost:3001/controller", "", "http://localhost/")
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer websocketConnection.Close()

	go func() {
		for {
			var raw json.RawMessage
			if err := websocket.JSON.Receive(websocketConnection, &raw); err != nil {
				fmt.Println("\rConnection closed:", err)
				os.Exit(0)
			}
			fmt.Printf("\r%s\r\n", string(raw))
		}
	}()

	savedTerminalSettings, err := setRawMode(os.Stdin.Fd())
	if err != nil {
		fmt.Println("Error setting raw mode:", err)
		return
	}
	defer unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)

	interruptSignalChannel := make(chan os.Signal, 1)
	signal.Notify(interruptSignalChannel, os.Interrupt)
	go func() {
		<-interruptSignalChannel
		unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)
		os.Exit(0)
	}()

	fmt.Print("a/d aim, space shoot, r restart, i initials, q quit\r\n")

	angle := 90.0
	for {
		singleByteBuffer := make([]byte, 1)
		if _, err := os.Stdin.Read(singleByteBuffer); err != nil {
			return
		}
		switch singleByteBuffer[0] {
		case 'a', 'A':
			angle += angleStep
			send(websocketConnection, controllerMessage{MessageType: "aim", Angle: angle})
		case 'd', 'D':
			angle -= angleStep
			send(websocketConnection, controllerMessage{MessageType: "aim", Angle: angle})
		case ' ':
			send(websocketConnection, controllerMessage{MessageType: "shoot"})
		case 'r', 'R':
			send(websocketConnection, controllerMessage{MessageType: "restart"})
		case 'i', 'I':
			// Restore the terminal long enough to read three letters.
			unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)
			fmt.Print("Initials: ")
			var initials string
			fmt.Scanln(&initials)
			if _, err := setRawMode(os.Stdin.Fd()); err != nil {
				fmt.Println("Error restoring raw mode:", err)
				return
			}
			send(websocketConnection, controllerMessage{MessageType: "initials", Initials: initials})
		case 'q', 'Q', 'c', 'C':
			fmt.Print("Quitting\r\n")
			unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)
			os.Exit(0)
		}
	}
}
