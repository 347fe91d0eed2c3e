package catalog

import "voxcmd/pkg/voxtypes"

// Templates returns fresh copies of the builtin command corpus. Callers may
// bind handlers and register the copies without affecting later calls.
func Templates() []*voxtypes.CommandTemplate {
	defs := []voxtypes.CommandTemplate{
		// --- file ---
		{
			ID:          "file.save",
			Category:    voxtypes.CategoryFile,
			Patterns:    []string{"save {filename}", "save the file", "save"},
			Description: "save a file",
			Examples:    []string{"save MyActor.cpp", "save this", "save the file"},
		},
		{
			ID:          "file.open",
			Category:    voxtypes.CategoryFile,
			Patterns:    []string{"open {filename}", "open the file {filename}"},
			Description: "open a file",
			Examples:    []string{"open PlayerController.cpp"},
		},
		{
			ID:          "file.close",
			Category:    voxtypes.CategoryFile,
			Patterns:    []string{"close {filename}", "close the file", "close this file"},
			Description: "close a file",
			Examples:    []string{"close this file"},
		},
		{
			ID:                   "file.delete",
			Category:             voxtypes.CategoryFile,
			Patterns:             []string{"delete {filename}", "delete the file {filename}"},
			Description:          "delete a file",
			Examples:             []string{"delete OldLevel.umap"},
			RequiresConfirmation: true,
		},
		{
			ID:          "file.search",
			Category:    voxtypes.CategoryFile,
			Patterns:    []string{"search for {text}", "find {text} in files"},
			Description: "search the project for text",
			Examples:    []string{"search for BeginPlay"},
		},

		// --- navigation ---
		{
			ID:          "nav.goto_line",
			Category:    voxtypes.CategoryNavigation,
			Patterns:    []string{"go to line {line}", "jump to line {line}"},
			Description: "move the cursor to a line",
			Examples:    []string{"go to line 42"},
		},
		{
			ID:          "nav.goto_file",
			Category:    voxtypes.CategoryNavigation,
			Patterns:    []string{"go to {filename}", "switch to {filename}"},
			Description: "switch the editor to a file",
			Examples:    []string{"switch to GameMode.cpp"},
		},
		{
			ID:          "nav.goto_definition",
			Category:    voxtypes.CategoryNavigation,
			Patterns:    []string{"go to definition", "go to the definition of {text}"},
			Description: "jump to a symbol definition",
			Examples:    []string{"go to definition"},
		},

		// --- git ---
		{
			ID:          "git.status",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"git status", "show git status", "what changed"},
			Description: "show working tree status",
			Examples:    []string{"what changed"},
		},
		{
			ID:          "git.commit",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"commit with message {message}", "commit {message}", "commit my changes"},
			Description: "commit staged changes",
			Examples:    []string{"commit with message fix lighting"},
		},
		{
			ID:          "git.push",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"push", "push my changes", "git push"},
			Description: "push commits to the remote",
			Examples:    []string{"push my changes"},
		},
		{
			ID:                   "git.force_push",
			Category:             voxtypes.CategoryGit,
			Patterns:             []string{"force push", "push with force"},
			Description:          "force push, overwriting remote history",
			Examples:             []string{"force push"},
			RequiresConfirmation: true,
		},
		{
			ID:          "git.pull",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"pull", "pull the latest", "git pull"},
			Description: "pull from the remote",
			Examples:    []string{"pull the latest"},
		},
		{
			ID:          "git.create_branch",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"create branch {branch}", "create a branch called {branch}"},
			Description: "create a git branch",
			Examples:    []string{"create a branch called feature-lighting"},
		},
		{
			ID:          "git.switch_branch",
			Category:    voxtypes.CategoryGit,
			Patterns:    []string{"switch to branch {branch}", "checkout {branch}"},
			Description: "switch to a git branch",
			Examples:    []string{"switch to branch main"},
		},
		{
			ID:                   "git.discard",
			Category:             voxtypes.CategoryGit,
			Patterns:             []string{"discard my changes", "throw away my changes"},
			Description:          "discard uncommitted changes",
			Examples:             []string{"discard my changes"},
			RequiresConfirmation: true,
		},

		// --- collaboration ---
		{
			ID:          "collab.online_users",
			Category:    voxtypes.CategoryCollaboration,
			Patterns:    []string{"who is online", "who's online", "show online users"},
			Description: "list online collaborators",
			Examples:    []string{"who is online"},
		},
		{
			ID:          "collab.follow",
			Category:    voxtypes.CategoryCollaboration,
			Patterns:    []string{"follow {user}", "follow what {user} is doing"},
			Description: "follow another user's viewport",
			Examples:    []string{"follow alice"},
		},
		{
			ID:          "collab.share_selection",
			Category:    voxtypes.CategoryCollaboration,
			Patterns:    []string{"share {text} with {user}", "send {text} to {user}"},
			Description: "share a snippet with a collaborator",
			Examples:    []string{"share selected with bob"},
		},

		// --- engine-actor ---
		{
			ID:          "actor.spawn",
			Category:    voxtypes.CategoryEngineActor,
			Patterns:    []string{"spawn a {actor}", "spawn {actor}", "add a {actor} to the scene"},
			Description: "spawn an actor in the level",
			Examples:    []string{"spawn a cube", "add a point light to the scene"},
		},
		{
			ID:                   "actor.delete",
			Category:             voxtypes.CategoryEngineActor,
			Patterns:             []string{"delete the {actor}", "remove the {actor}", "delete selected actors"},
			Description:          "delete an actor from the level",
			Examples:             []string{"delete the cube"},
			RequiresConfirmation: true,
		},
		{
			ID:          "actor.select",
			Category:    voxtypes.CategoryEngineActor,
			Patterns:    []string{"select the {actor}", "select {actor}"},
			Description: "select an actor",
			Examples:    []string{"select the player start"},
		},
		{
			ID:          "actor.move",
			Category:    voxtypes.CategoryEngineActor,
			Patterns:    []string{"move the {actor} to {location}", "move {actor} to {location}"},
			Description: "move an actor to a location",
			Examples:    []string{"move the cube to the origin"},
		},
		{
			ID:          "actor.scale",
			Category:    voxtypes.CategoryEngineActor,
			Patterns:    []string{"scale the {actor} by {scale}", "make the {actor} {scale} times bigger"},
			Description: "scale an actor",
			Examples:    []string{"scale the cube by 2"},
		},
		{
			ID:          "actor.rotate",
			Category:    voxtypes.CategoryEngineActor,
			Patterns:    []string{"rotate the {actor} by {value} degrees"},
			Description: "rotate an actor",
			Examples:    []string{"rotate the cube by 90 degrees"},
		},

		// --- engine-asset ---
		{
			ID:          "asset.apply_material",
			Category:    voxtypes.CategoryEngineAsset,
			Patterns:    []string{"apply {asset} material to the {actor}", "apply the {asset} material"},
			Description: "apply a material to an actor",
			Examples:    []string{"apply brick material to the wall"},
		},
		{
			ID:          "asset.import",
			Category:    voxtypes.CategoryEngineAsset,
			Patterns:    []string{"import {asset}", "import the asset {asset}"},
			Description: "import an asset into the project",
			Examples:    []string{"import rock_mesh.fbx"},
		},
		{
			ID:          "asset.generate_texture",
			Category:    voxtypes.CategoryEngineAsset,
			Patterns:    []string{"generate a {text} texture", "make a texture of {text}"},
			Description: "generate a texture from a description",
			Examples:    []string{"generate a rusty metal texture"},
		},

		// --- engine-level ---
		{
			ID:          "level.save",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"save the level", "save the map"},
			Description: "save the current level",
			Examples:    []string{"save the level"},
		},
		{
			ID:          "level.play",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"play the game", "play in editor", "start playing"},
			Description: "start play-in-editor",
			Examples:    []string{"play the game"},
		},
		{
			ID:          "level.stop",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"stop playing", "stop the game"},
			Description: "stop play-in-editor",
			Examples:    []string{"stop playing"},
		},
		{
			ID:          "level.time_of_day",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"set time of day to {value}", "make it {value}"},
			Description: "set the level time of day",
			Examples:    []string{"set time of day to sunset", "make it night"},
		},
		{
			ID:          "level.lighting_preset",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"apply {value} lighting", "use the {value} lighting preset"},
			Description: "apply a lighting preset",
			Examples:    []string{"apply moody lighting"},
		},
		{
			ID:          "level.spawn_light",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"add a {value} light", "spawn a {value} light at {location}"},
			Description: "spawn a light in the level",
			Examples:    []string{"add a point light"},
		},
		{
			ID:          "level.screenshot",
			Category:    voxtypes.CategoryEngineLevel,
			Patterns:    []string{"take a screenshot", "capture the viewport"},
			Description: "capture a viewport screenshot",
			Examples:    []string{"take a screenshot"},
		},

		// --- engine-landscape ---
		{
			ID:          "landscape.sculpt",
			Category:    voxtypes.CategoryEngineLandscape,
			Patterns:    []string{"sculpt a {value} at {location}", "raise the terrain at {location}"},
			Description: "sculpt the landscape",
			Examples:    []string{"sculpt a hill at the center"},
		},
		{
			ID:          "landscape.paint",
			Category:    voxtypes.CategoryEngineLandscape,
			Patterns:    []string{"paint {value} on the landscape", "paint the terrain with {value}"},
			Description: "paint a landscape layer",
			Examples:    []string{"paint grass on the landscape"},
		},
		{
			ID:          "landscape.foliage",
			Category:    voxtypes.CategoryEngineLandscape,
			Patterns:    []string{"scatter {value} across the landscape", "add foliage {value}"},
			Description: "scatter foliage instances",
			Examples:    []string{"scatter trees across the landscape"},
		},

		// --- engine-physics ---
		{
			ID:          "physics.enable",
			Category:    voxtypes.CategoryEnginePhysics,
			Patterns:    []string{"enable physics on the {actor}", "turn on physics for the {actor}"},
			Description: "enable physics simulation on an actor",
			Examples:    []string{"enable physics on the crate"},
		},
		{
			ID:          "physics.disable",
			Category:    voxtypes.CategoryEnginePhysics,
			Patterns:    []string{"disable physics on the {actor}", "turn off physics for the {actor}"},
			Description: "disable physics simulation on an actor",
			Examples:    []string{"disable physics on the crate"},
		},
		{
			ID:          "physics.gravity",
			Category:    voxtypes.CategoryEnginePhysics,
			Patterns:    []string{"set gravity to {value}", "change gravity to {value}"},
			Description: "set the world gravity",
			Examples:    []string{"set gravity to -490"},
		},

		// --- general ---
		{
			ID:          "general.undo",
			Category:    voxtypes.CategoryGeneral,
			Patterns:    []string{"undo", "undo that", "undo the last action"},
			Description: "undo the last action",
			Examples:    []string{"undo"},
		},
		{
			ID:          "general.redo",
			Category:    voxtypes.CategoryGeneral,
			Patterns:    []string{"redo", "redo that"},
			Description: "redo the last undone action",
			Examples:    []string{"redo"},
		},
		{
			ID:          "general.help",
			Category:    voxtypes.CategoryGeneral,
			Patterns:    []string{"help", "what can i say", "show commands"},
			Description: "list available commands",
			Examples:    []string{"what can i say"},
		},
	}

	out := make([]*voxtypes.CommandTemplate, len(defs))
	for i := range defs {
		t := defs[i]
		out[i] = &t
	}
	return out
}
