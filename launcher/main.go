package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

func main() {
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        CityVision Launcher           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	// 1. Iniciar o Servidor (em janela própria no Windows, para ver os logs)
	fmt.Println("[1/2] Iniciando Servidor...")
	var serverCmd *exec.Cmd
	if runtime.GOOS == "windows" {
		serverCmd = exec.Command("cmd", "/c", "start", "CityVision SERVER", "server.exe")
	} else {
		serverCmd = exec.Command("./server")
	}
	serverCmd.Dir = "servidor"
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor subir e gerar a cidade
	fmt.Println("Aguardando inicialização do servidor...")
	time.Sleep(3 * time.Second)

	// 3. Iniciar o Cliente
	fmt.Println("[2/2] Abrindo Cliente...")

	clientBin := "cliente/client"
	if runtime.GOOS == "windows" {
		clientBin = "cliente/client.exe"
	}
	absClientPath, err := filepath.Abs(clientBin)
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	clientCmd := exec.Command(absClientPath)
	clientCmd.Dir = "cliente" // working dir do cliente carrega assets/ relativos

	if err := clientCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: não foi possível executar o cliente em %s\n", absClientPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! CityVision foi iniciado.")
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}
