// Package mqtt provides MQTT client connectivity for the NeoPool bridge.
//
// This package manages:
//   - Connection to the MQTT broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for bridge offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The pool controller runs Tasmota firmware with the NeoPool driver and
// publishes all of its state over MQTT. The bridge is a plain MQTT client
// alongside it:
//
//	NeoPool controller (Tasmota) ↔ MQTT Broker ↔ NeoPool bridge
//
// Topic layout (templated on the device topic root, default "SmartPool"):
//
//	tele/{topic}/SENSOR  JSON telemetry documents
//	tele/{topic}/LWT     "Online"/"Offline" device liveness
//	cmnd/{topic}/{cmd}   plain-string commands to the device
//	stat/{topic}/RESULT  command acknowledgements (not consumed)
//
// # Security Considerations
//
//   - TLS is recommended for non-local brokers (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.Telemetry("SmartPool"), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	topic := mqtt.Topics{}.Command("SmartPool", "NPLight")
//	client.Publish(topic, []byte("1"), 0, false)
package mqtt
