// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package blox is the overall repository for the blox block-diagram
dynamical systems framework implemented in the Go language (golang):
neurons, neural masses, and stimulus sources are connected into a graph,
compiled into one flat ODE system, and integrated numerically.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* blox: the core framework: components (bloxs) with kinds, variables and
dynamics, graphs and connections, connection rules dispatched over the
kind hierarchy, composites, and the compiler that flattens a graph into
a System of variables, accumulators, events, drives, and trains.

* solve: numerical integration of a compiled System: Euler, Heun, and
RK4 fixed-step methods and the adaptive RK45, with discrete spike
events, scheduled spike trains, waveform drives, stochastic (Langevin)
noise, and recorded Solutions with spike and rate views.

* izhi, lif, hh: spiking neuron components -- the Izhikevich quadratic
model with discrete spike coupling, the leaky integrate-and-fire neuron
with conductance-based synapses, and the continuous Hodgkin-Huxley
conductance model.

* mass: population-level components -- the Wilson-Cowan
excitatory-inhibitory pair and the damped harmonic oscillator used as
the integrator accuracy reference.

* source: stimulus components -- constant levels, stochastic spike
trains (Bernoulli and Poisson), and periodic pulse protocols with
optionally smoothed edges.

* circuit: composed circuits -- the winner-take-all microcircuit
composite and the two-pool spiking decision network builder.

* examples: these compile into runnable programs: examples/neuron runs
single cells and sources with CSV logs, and examples/decision runs the
decision circuit end to end.
*/
package blox
